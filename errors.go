package sparsetag

import (
	"errors"

	"github.com/hupe1980/sparsetag/internal/csc"
	"github.com/hupe1980/sparsetag/query"
)

// Sentinel errors. Use errors.Is to classify; detail is carried in the
// wrapped message or in the typed query errors.
var (
	// ErrValidation reports malformed construction input.
	ErrValidation = csc.ErrValidation
	// ErrSize reports a requested size that would overflow safe limits.
	ErrSize = csc.ErrSize
	// ErrInvalidQueryStructure reports a query tree with missing or malformed parts.
	ErrInvalidQueryStructure = query.ErrInvalidQueryStructure
	// ErrUnknownColumn reports a condition on a column the table does not have.
	ErrUnknownColumn = query.ErrUnknownColumn
	// ErrInvalidOperator reports an unrecognized comparison or logical operator.
	ErrInvalidOperator = query.ErrInvalidOperator
	// ErrInvalidValue reports a level outside 0..3 or a comparison against NONE.
	ErrInvalidValue = query.ErrInvalidValue
)

// ErrorKind enumerates the error categories of the package.
type ErrorKind uint8

const (
	KindNone ErrorKind = iota
	KindValidation
	KindSize
	KindInvalidQueryStructure
	KindUnknownColumn
	KindInvalidOperator
	KindInvalidValue
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindSize:
		return "size"
	case KindInvalidQueryStructure:
		return "invalid_query_structure"
	case KindUnknownColumn:
		return "unknown_column"
	case KindInvalidOperator:
		return "invalid_operator"
	case KindInvalidValue:
		return "invalid_value"
	default:
		return "other"
	}
}

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrSize):
		return KindSize
	case errors.Is(err, ErrInvalidQueryStructure):
		return KindInvalidQueryStructure
	case errors.Is(err, ErrUnknownColumn):
		return KindUnknownColumn
	case errors.Is(err, ErrInvalidOperator):
		return KindInvalidOperator
	case errors.Is(err, ErrInvalidValue):
		return KindInvalidValue
	default:
		return KindOther
	}
}
