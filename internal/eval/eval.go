package eval

import (
	"fmt"
	"strings"

	"github.com/hupe1980/sparsetag/internal/csc"
	"github.com/hupe1980/sparsetag/query"
)

// Evaluate validates q against m and returns the sorted rows it matches.
func Evaluate(q query.Query, m *csc.Matrix) ([]uint32, error) {
	if err := query.Validate(q, m); err != nil {
		return nil, err
	}
	return evaluate(q, m)
}

func evaluate(q query.Query, m *csc.Matrix) ([]uint32, error) {
	switch n := q.(type) {
	case *query.Condition:
		return evaluateCondition(n, m)
	case *query.Logical:
		return evaluateLogical(n, m)
	default:
		return nil, fmt.Errorf("%w: unsupported query node %T", query.ErrInvalidQueryStructure, q)
	}
}

func evaluateCondition(c *query.Condition, m *csc.Matrix) ([]uint32, error) {
	col, ok := m.ColumnIndex(c.Column)
	if !ok {
		return nil, &query.ColumnError{Column: c.Column, Available: m.ColumnNames()}
	}
	set, err := c.ValueSet()
	if err != nil {
		return nil, err
	}
	if set.Empty() {
		return []uint32{}, nil
	}

	values, rows := m.Column(col)
	out := make([]uint32, 0, len(values)/2)
	for k, v := range values {
		if set.Contains(v) {
			out = append(out, rows.At(k))
		}
	}
	return out, nil
}

func evaluateLogical(l *query.Logical, m *csc.Matrix) ([]uint32, error) {
	switch query.LogicalOp(strings.ToUpper(string(l.Op))) {
	case query.And:
		var acc []uint32
		for i, sub := range l.Conditions {
			rows, err := evaluate(sub, m)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				acc = rows
			} else {
				acc = Intersect(acc, rows)
			}
			if len(acc) == 0 {
				return []uint32{}, nil
			}
		}
		return acc, nil

	case query.Or:
		parts := make([][]uint32, 0, len(l.Conditions))
		for _, sub := range l.Conditions {
			rows, err := evaluate(sub, m)
			if err != nil {
				return nil, err
			}
			parts = append(parts, rows)
		}
		return Union(parts...), nil

	case query.Not:
		if len(l.Conditions) != 1 {
			return nil, fmt.Errorf("%w: NOT operator requires exactly one condition, got %d",
				query.ErrInvalidQueryStructure, len(l.Conditions))
		}
		rows, err := evaluate(l.Conditions[0], m)
		if err != nil {
			return nil, err
		}
		return Difference(m.RowsWithAnyValue(), rows), nil

	default:
		return nil, &query.OperatorError{Operator: string(l.Op)}
	}
}
