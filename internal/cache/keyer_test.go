package cache

import (
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/sparsetag/model"
	"github.com/hupe1980/sparsetag/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyer_Deterministic(t *testing.T) {
	k := NewKeyer(nil)

	build := func() query.Query {
		return query.AllOf(
			query.Ge("a", model.Medium),
			query.Negate(query.In("b", model.Low, model.High)),
		)
	}
	assert.Equal(t, k.Key(build()), k.Key(build()))
	assert.Equal(t, k.Key(query.Eq("a", model.Low)), k.Key(query.Eq("a", model.Low)))
}

func TestKeyer_Distinguishes(t *testing.T) {
	k := NewKeyer(nil)

	keys := []Key{
		k.Key(query.Eq("a", model.Low)),
		k.Key(query.Eq("a", model.Medium)),
		k.Key(query.Ne("a", model.Low)),
		k.Key(query.Eq("b", model.Low)),
		k.Key(query.In("a", model.Low)),
		k.Key(query.In("a", model.Low, model.High)),
		k.Key(query.AllOf(query.Eq("a", model.Low), query.Eq("b", model.Low))),
		k.Key(query.AnyOf(query.Eq("a", model.Low), query.Eq("b", model.Low))),
		k.Key(query.AllOf(query.Eq("a", model.Low))),
	}
	seen := make(map[Key]int)
	for i, key := range keys {
		if j, dup := seen[key]; dup {
			t.Fatalf("key %d collides with key %d", i, j)
		}
		seen[key] = i
	}
}

func TestKeyer_LengthPrefixedColumns(t *testing.T) {
	// Without length prefixes these two would encode identically.
	a := encodeCondition(&query.Condition{Column: "x|==", Op: "==", Value: 1})
	b := encodeCondition(&query.Condition{Column: "x", Op: "==|==", Value: 1})
	assert.NotEqual(t, a, b)
}

func TestKeyer_OperatorMatchesValidation(t *testing.T) {
	k := NewKeyer(nil)
	lower := &query.Condition{Column: "a", Op: "in", Values: []model.Confidence{model.Low}}

	// Only the exact "IN" is a valid operator, so "in" must not share its key.
	assert.NotEqual(t, k.Key(query.In("a", model.Low)), k.Key(lower))
	assert.Contains(t, string(k.encode(query.In("a", model.Low))), "2:IN|v:1,1")

	parsed, err := query.Parse([]byte(`{"column":"a","op":"in","values":[1]}`))
	require.NoError(t, err)
	assert.Equal(t, k.Key(query.In("a", model.Low)), k.Key(parsed))
}

func TestKeyer_FallbackOnMarshalError(t *testing.T) {
	failing := NewKeyer(func(any) ([]byte, error) { return nil, errors.New("boom") })
	regular := NewKeyer(nil)

	q := query.AnyOf(query.Eq("a", model.Low), query.Gt("b", model.Low))

	enc := failing.encode(q)
	assert.True(t, strings.HasPrefix(string(enc), prefixRepr))
	assert.Equal(t, failing.Key(q), failing.Key(query.AnyOf(query.Eq("a", model.Low), query.Gt("b", model.Low))))
	assert.NotEqual(t, regular.Key(q), failing.Key(q))
	assert.NotEqual(t,
		failing.Key(query.AnyOf(query.Eq("a", model.Low))),
		failing.Key(query.AllOf(query.Eq("a", model.Low))),
	)
}

func TestKeyer_Prefixes(t *testing.T) {
	k := NewKeyer(nil)

	assert.True(t, strings.HasPrefix(string(k.encode(query.Eq("a", model.Low))), prefixCondition))
	assert.True(t, strings.HasPrefix(string(k.encode(query.Negate(query.Eq("a", model.Low)))), prefixJSON))
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "00000000000000010000000000000002", Key{Hi: 1, Lo: 2}.String())
}
