package query

import (
	"strings"
)

// Schema resolves column names for validation.
type Schema interface {
	ColumnIndex(name string) (int, bool)
	ColumnNames() []string
}

// Validate checks the whole tree against s before any evaluation happens.
// It reports the first problem found in depth-first order.
func Validate(q Query, s Schema) error {
	switch n := q.(type) {
	case nil:
		return structureErrorf("query must not be nil")
	case *Condition:
		if n == nil {
			return structureErrorf("condition must not be nil")
		}
		return validateCondition(n, s)
	case *Logical:
		if n == nil {
			return structureErrorf("logical query must not be nil")
		}
		return validateLogical(n, s)
	default:
		return structureErrorf("unsupported query node %T", q)
	}
}

func validateCondition(c *Condition, s Schema) error {
	if c.Column == "" {
		return structureErrorf("condition requires 'column'")
	}
	if c.Op == "" {
		return structureErrorf("condition on column %q requires 'op'", c.Column)
	}
	if _, ok := s.ColumnIndex(c.Column); !ok {
		return &ColumnError{Column: c.Column, Available: s.ColumnNames()}
	}
	if !c.Op.Valid() {
		return &OperatorError{Operator: string(c.Op)}
	}
	_, err := c.ValueSet()
	return err
}

func validateLogical(l *Logical, s Schema) error {
	op := LogicalOp(strings.ToUpper(string(l.Op)))
	if !op.Valid() {
		return &OperatorError{Operator: string(l.Op)}
	}
	if len(l.Conditions) == 0 {
		return structureErrorf("%s operator requires 'conditions' list", op)
	}
	if op == Not && len(l.Conditions) != 1 {
		return structureErrorf("NOT operator requires exactly one condition, got %d", len(l.Conditions))
	}
	for _, sub := range l.Conditions {
		if err := Validate(sub, s); err != nil {
			return err
		}
	}
	return nil
}
