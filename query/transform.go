package query

import (
	"github.com/hupe1980/sparsetag/model"
)

// ValueSet is a bitmask of confidence levels; bit v is set when level v is a member.
type ValueSet uint8

// SetOf returns the set containing levels.
func SetOf(levels ...model.Confidence) ValueSet {
	var s ValueSet
	for _, l := range levels {
		if l.Valid() {
			s |= 1 << l
		}
	}
	return s
}

// allStored is {LOW, MEDIUM, HIGH}.
var allStored = SetOf(model.StoredLevels[:]...)

// Contains reports whether the stored byte v is a member.
func (s ValueSet) Contains(v uint8) bool {
	return v <= uint8(model.MaxConfidence) && s&(1<<v) != 0
}

// Empty reports whether no level is a member.
func (s ValueSet) Empty() bool { return s == 0 }

// Levels lists the members in ascending order.
func (s ValueSet) Levels() []model.Confidence {
	var out []model.Confidence
	for l := model.None; l <= model.MaxConfidence; l++ {
		if s&(1<<l) != 0 {
			out = append(out, l)
		}
	}
	return out
}

// Transform rewrites a comparison against v into the set of stored levels
// that satisfy it. NONE never appears in the result.
func Transform(op Operator, v model.Confidence) (ValueSet, error) {
	if !v.Valid() {
		return 0, &ValueError{Value: int(v), Reason: "must be 0-3"}
	}
	if v == model.None {
		return 0, &ValueError{Value: int(v), Reason: "cannot compare to NONE; this would require scanning every unlabeled cell"}
	}

	var keep func(l model.Confidence) bool
	switch op {
	case OpEqual:
		keep = func(l model.Confidence) bool { return l == v }
	case OpNotEqual:
		keep = func(l model.Confidence) bool { return l != v }
	case OpGreaterThan:
		keep = func(l model.Confidence) bool { return l > v }
	case OpGreaterEqual:
		keep = func(l model.Confidence) bool { return l >= v }
	case OpLessThan:
		keep = func(l model.Confidence) bool { return l < v }
	case OpLessEqual:
		keep = func(l model.Confidence) bool { return l <= v }
	default:
		return 0, &OperatorError{Operator: string(op)}
	}

	var s ValueSet
	for _, l := range model.StoredLevels {
		if keep(l) {
			s |= 1 << l
		}
	}
	return s, nil
}

// ValueSet resolves the condition to the set of stored levels it accepts.
func (c *Condition) ValueSet() (ValueSet, error) {
	if c.Op != OpIn {
		s, err := Transform(c.Op, c.Value)
		if err != nil {
			if ve, ok := err.(*ValueError); ok {
				ve.Column = c.Column
			}
			return 0, err
		}
		return s, nil
	}

	if len(c.Values) == 0 {
		return 0, structureErrorf("IN operator on column %q requires a non-empty 'values' list", c.Column)
	}
	var s ValueSet
	for _, v := range c.Values {
		if !v.Valid() {
			return 0, &ValueError{Column: c.Column, Value: int(v), Reason: "must be 0-3"}
		}
		if v == model.None {
			return 0, &ValueError{Column: c.Column, Value: int(v), Reason: "cannot use NONE in IN operator"}
		}
		s |= 1 << v
	}
	return s & allStored, nil
}
