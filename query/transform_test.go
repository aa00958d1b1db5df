package query

import (
	"testing"

	"github.com/hupe1980/sparsetag/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		op   Operator
		v    model.Confidence
		want []model.Confidence
	}{
		{OpEqual, model.Medium, []model.Confidence{model.Medium}},
		{OpNotEqual, model.Low, []model.Confidence{model.Medium, model.High}},
		{OpGreaterThan, model.Low, []model.Confidence{model.Medium, model.High}},
		{OpGreaterEqual, model.Medium, []model.Confidence{model.Medium, model.High}},
		{OpLessThan, model.Medium, []model.Confidence{model.Low}},
		{OpLessEqual, model.High, []model.Confidence{model.Low, model.Medium, model.High}},
		{OpLessThan, model.Low, nil},
		{OpGreaterThan, model.High, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.op)+tt.v.String(), func(t *testing.T) {
			s, err := Transform(tt.op, tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Levels())
			assert.False(t, s.Contains(0))
		})
	}
}

func TestTransform_Errors(t *testing.T) {
	_, err := Transform(OpNotEqual, model.None)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Transform(OpEqual, model.Confidence(5))
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Transform("~=", model.Low)
	assert.ErrorIs(t, err, ErrInvalidOperator)
	var oe *OperatorError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "~=", oe.Operator)
}

func TestCondition_ValueSet(t *testing.T) {
	s, err := In("a", model.High, model.Low, model.High).ValueSet()
	require.NoError(t, err)
	assert.Equal(t, []model.Confidence{model.Low, model.High}, s.Levels())
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(2))
	assert.False(t, s.Contains(200))

	_, err = In("a").ValueSet()
	assert.ErrorIs(t, err, ErrInvalidQueryStructure)

	_, err = In("a", model.Low, model.None).ValueSet()
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Ne("a", model.None).ValueSet()
	var ve *ValueError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "a", ve.Column)
}
