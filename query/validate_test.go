package query

import (
	"testing"

	"github.com/hupe1980/sparsetag/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schema []string

func (s schema) ColumnIndex(name string) (int, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == name {
			return i, true
		}
	}
	return 0, false
}

func (s schema) ColumnNames() []string { return s }

func TestValidate(t *testing.T) {
	cols := schema{"a", "b"}

	tests := []struct {
		name    string
		q       Query
		wantErr error
	}{
		{"condition", Ge("a", model.Medium), nil},
		{"in", In("b", model.Low, model.High), nil},
		{"nested", AllOf(Eq("a", model.Low), AnyOf(Eq("b", model.High), Negate(Eq("a", model.High)))), nil},
		{"lower-case logical", &Logical{Op: "or", Conditions: []Query{Eq("a", model.Low)}}, nil},
		{"nil", nil, ErrInvalidQueryStructure},
		{"nil condition", (*Condition)(nil), ErrInvalidQueryStructure},
		{"missing column", &Condition{Op: OpEqual, Value: model.Low}, ErrInvalidQueryStructure},
		{"missing op", &Condition{Column: "a", Value: model.Low}, ErrInvalidQueryStructure},
		{"unknown column", Eq("zzz", model.Low), ErrUnknownColumn},
		{"unknown operator", &Condition{Column: "a", Op: "~", Value: model.Low}, ErrInvalidOperator},
		{"none compare", Eq("a", model.None), ErrInvalidValue},
		{"out of range", Eq("a", model.Confidence(9)), ErrInvalidValue},
		{"empty and", AllOf(), ErrInvalidQueryStructure},
		{"not with two", &Logical{Op: Not, Conditions: []Query{Eq("a", model.Low), Eq("b", model.Low)}}, ErrInvalidQueryStructure},
		{"unknown logical", &Logical{Op: "XOR", Conditions: []Query{Eq("a", model.Low)}}, ErrInvalidOperator},
		{"deep error", AllOf(Eq("a", model.Low), AnyOf(Eq("missing", model.Low))), ErrUnknownColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.q, cols)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ColumnErrorNamesAvailable(t *testing.T) {
	err := Validate(Eq("nope", model.Low), schema{"a", "b"})
	var ce *ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "nope", ce.Column)
	assert.Contains(t, err.Error(), "a, b")
}
