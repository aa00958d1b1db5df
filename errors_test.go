package sparsetag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/sparsetag/query"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{fmt.Errorf("%w: bad", ErrValidation), KindValidation},
		{fmt.Errorf("%w: huge", ErrSize), KindSize},
		{&query.ColumnError{Column: "x"}, KindUnknownColumn},
		{&query.OperatorError{Operator: "~"}, KindInvalidOperator},
		{&query.ValueError{Column: "x", Value: 0}, KindInvalidValue},
		{fmt.Errorf("%w: missing op", ErrInvalidQueryStructure), KindInvalidQueryStructure},
		{errors.New("other"), KindOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "unknown_column", KindUnknownColumn.String())
	assert.Equal(t, "other", ErrorKind(200).String())
}
