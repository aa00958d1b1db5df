package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidQueryStructure is returned when required query fields are
	// missing, a logical operator has no sub-queries, or NOT does not have
	// exactly one sub-query.
	ErrInvalidQueryStructure = errors.New("invalid query structure")

	// ErrUnknownColumn is returned when a query references a column the
	// table does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidOperator is returned for unrecognized operator tokens.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrInvalidValue is returned for confidence values outside the domain
	// or NONE used where it would require scanning unlabeled cells.
	ErrInvalidValue = errors.New("invalid value")
)

// ColumnError reports a column name that could not be resolved.
type ColumnError struct {
	Column    string
	Available []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not found. Available: %s", e.Column, strings.Join(e.Available, ", "))
}

// Unwrap returns ErrUnknownColumn.
func (e *ColumnError) Unwrap() error { return ErrUnknownColumn }

// OperatorError reports an unrecognized operator token.
type OperatorError struct {
	Operator string
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("unknown operator: %q", e.Operator)
}

// Unwrap returns ErrInvalidOperator.
func (e *OperatorError) Unwrap() error { return ErrInvalidOperator }

// ValueError reports an unusable confidence value in a condition.
type ValueError struct {
	Column string
	Value  int
	Reason string
}

func (e *ValueError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("invalid confidence value %d: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid confidence value %d for column %q: %s", e.Value, e.Column, e.Reason)
}

// Unwrap returns ErrInvalidValue.
func (e *ValueError) Unwrap() error { return ErrInvalidValue }

func structureErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQueryStructure, fmt.Sprintf(format, args...))
}
