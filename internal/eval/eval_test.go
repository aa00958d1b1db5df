package eval

import (
	"testing"

	"github.com/hupe1980/sparsetag/internal/csc"
	"github.com/hupe1980/sparsetag/model"
	"github.com/hupe1980/sparsetag/query"
	"github.com/hupe1980/sparsetag/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeRows(t *testing.T) *csc.Matrix {
	t.Helper()
	m, err := csc.FromDense([][]model.Confidence{
		{model.Low},
		{model.Medium},
		{model.High},
	}, []string{"Tag1"})
	require.NoError(t, err)
	return m
}

func TestEvaluate_Comparisons(t *testing.T) {
	m := threeRows(t)

	tests := []struct {
		name string
		q    query.Query
		want []uint32
	}{
		{"ge medium", query.Ge("Tag1", model.Medium), []uint32{1, 2}},
		{"lt medium", query.Lt("Tag1", model.Medium), []uint32{0}},
		{"eq high", query.Eq("Tag1", model.High), []uint32{2}},
		{"ne low", query.Ne("Tag1", model.Low), []uint32{1, 2}},
		{"gt high", query.Gt("Tag1", model.High), []uint32{}},
		{"le low", query.Le("Tag1", model.Low), []uint32{0}},
		{"in", query.In("Tag1", model.Low, model.High), []uint32{0, 2}},
		{"not eq low", query.Negate(query.Eq("Tag1", model.Low)), []uint32{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.q, m)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_EmptyTable(t *testing.T) {
	m, err := csc.Empty(5, []string{"a"})
	require.NoError(t, err)

	got, err := Evaluate(query.Eq("a", model.High), m)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Evaluate(query.Negate(query.Eq("a", model.High)), m)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEvaluate_NotUniverseExcludesAllNoneRows(t *testing.T) {
	m, err := csc.FromDense([][]model.Confidence{
		{model.Low, model.None},
		{model.None, model.None},
		{model.None, model.High},
	}, []string{"a", "b"})
	require.NoError(t, err)

	got, err := Evaluate(query.Negate(query.Eq("a", model.Low)), m)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, got)
}

func TestEvaluate_Errors(t *testing.T) {
	m := threeRows(t)

	_, err := Evaluate(query.Eq("Missing", model.Low), m)
	assert.ErrorIs(t, err, query.ErrUnknownColumn)

	_, err = Evaluate(query.Eq("Tag1", model.None), m)
	assert.ErrorIs(t, err, query.ErrInvalidValue)

	_, err = Evaluate(&query.Logical{Op: query.Not}, m)
	assert.ErrorIs(t, err, query.ErrInvalidQueryStructure)

	_, err = Evaluate(&query.Condition{Column: "Tag1", Op: "~", Value: model.Low}, m)
	assert.ErrorIs(t, err, query.ErrInvalidOperator)
}

func TestEvaluate_ValidatesBeforeShortCircuit(t *testing.T) {
	m := threeRows(t)

	// The first operand is empty, yet the broken second operand is still reported.
	q := query.AllOf(
		query.Gt("Tag1", model.High),
		query.Eq("Unknown", model.Low),
	)
	_, err := Evaluate(q, m)
	assert.ErrorIs(t, err, query.ErrUnknownColumn)
}

func TestEvaluate_LowerCaseLogicalOperator(t *testing.T) {
	m := threeRows(t)

	got, err := Evaluate(&query.Logical{Op: "or", Conditions: []query.Query{
		query.Eq("Tag1", model.Low),
		query.Eq("Tag1", model.High),
	}}, m)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, got)
}

func TestEvaluate_DenseEquivalence(t *testing.T) {
	rng := testutil.NewRNG(4711)
	names := testutil.ColumnNames(6)

	for range 20 {
		dense := rng.DenseTable(60, len(names), 0.25)
		m, err := csc.FromDense(dense, names)
		require.NoError(t, err)

		for range 10 {
			q := rng.Query(names, 3)
			got, err := Evaluate(q, m)
			require.NoError(t, err)
			assert.Equal(t, testutil.ExactMatches(q, dense, names), got)
		}
	}
}

func TestEvaluate_Monotonicity(t *testing.T) {
	rng := testutil.NewRNG(99)
	names := testutil.ColumnNames(4)
	dense := rng.DenseTable(100, len(names), 0.3)
	m, err := csc.FromDense(dense, names)
	require.NoError(t, err)

	for range 30 {
		a, b := rng.Query(names, 2), rng.Query(names, 2)

		ra, err := Evaluate(a, m)
		require.NoError(t, err)
		rb, err := Evaluate(b, m)
		require.NoError(t, err)
		and, err := Evaluate(query.AllOf(a, b), m)
		require.NoError(t, err)
		or, err := Evaluate(query.AnyOf(a, b), m)
		require.NoError(t, err)

		assert.Subset(t, ra, and)
		assert.Subset(t, rb, and)
		assert.Subset(t, or, ra)
		assert.Subset(t, or, rb)
	}
}

func TestEvaluate_NarrowIndices(t *testing.T) {
	m := threeRows(t)
	rows, err := csc.Convert(m.RowIndices(), csc.Width8)
	require.NoError(t, err)
	offs, err := csc.Convert(m.ColOffsets(), csc.Width8)
	require.NoError(t, err)

	got, err := Evaluate(query.Ge("Tag1", model.Medium), m.WithIndices(rows, offs))
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, got)
}
