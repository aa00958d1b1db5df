package query

import (
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hupe1980/sparsetag/model"
)

// Operator is a condition operator.
type Operator string

const (
	// OpEqual represents the equality operator.
	OpEqual Operator = "=="
	// OpNotEqual represents the inequality operator (over stored levels only).
	OpNotEqual Operator = "!="
	// OpGreaterThan represents the greater than operator.
	OpGreaterThan Operator = ">"
	// OpGreaterEqual represents the greater than or equal operator.
	OpGreaterEqual Operator = ">="
	// OpLessThan represents the less than operator (over stored levels only).
	OpLessThan Operator = "<"
	// OpLessEqual represents the less than or equal operator.
	OpLessEqual Operator = "<="
	// OpIn represents the set membership operator.
	OpIn Operator = "IN"
)

// Valid reports whether o is a known condition operator.
func (o Operator) Valid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterEqual, OpLessThan, OpLessEqual, OpIn:
		return true
	default:
		return false
	}
}

// LogicalOp combines sub-queries.
type LogicalOp string

const (
	And LogicalOp = "AND"
	Or  LogicalOp = "OR"
	Not LogicalOp = "NOT"
)

// Valid reports whether o is a known logical operator.
func (o LogicalOp) Valid() bool {
	return o == And || o == Or || o == Not
}

// Query is a node of a boolean query tree: *Condition or *Logical.
type Query interface {
	isQuery()
}

// Condition filters the stored cells of a single column.
type Condition struct {
	Column string
	Op     Operator
	// Value is the comparison operand; ignored for OpIn.
	Value model.Confidence
	// Values is the membership set for OpIn.
	Values []model.Confidence
}

func (*Condition) isQuery() {}

// Logical combines sub-queries with AND, OR or NOT.
type Logical struct {
	Op         LogicalOp
	Conditions []Query
}

func (*Logical) isQuery() {}

// Eq matches cells equal to v.
func Eq(column string, v model.Confidence) *Condition { return cmpCond(column, OpEqual, v) }

// Ne matches stored cells not equal to v.
func Ne(column string, v model.Confidence) *Condition { return cmpCond(column, OpNotEqual, v) }

// Gt matches cells greater than v.
func Gt(column string, v model.Confidence) *Condition { return cmpCond(column, OpGreaterThan, v) }

// Ge matches cells greater than or equal to v.
func Ge(column string, v model.Confidence) *Condition { return cmpCond(column, OpGreaterEqual, v) }

// Lt matches stored cells less than v.
func Lt(column string, v model.Confidence) *Condition { return cmpCond(column, OpLessThan, v) }

// Le matches stored cells less than or equal to v.
func Le(column string, v model.Confidence) *Condition { return cmpCond(column, OpLessEqual, v) }

// In matches cells whose value is one of values.
func In(column string, values ...model.Confidence) *Condition {
	return &Condition{Column: column, Op: OpIn, Values: values}
}

func cmpCond(column string, op Operator, v model.Confidence) *Condition {
	return &Condition{Column: column, Op: op, Value: v}
}

// AllOf combines queries with AND.
func AllOf(qs ...Query) *Logical { return &Logical{Op: And, Conditions: qs} }

// AnyOf combines queries with OR.
func AnyOf(qs ...Query) *Logical { return &Logical{Op: Or, Conditions: qs} }

// Negate wraps q in NOT.
func Negate(q Query) *Logical { return &Logical{Op: Not, Conditions: []Query{q}} }

// normalizeOperator upper-cases word operators so "in" and "IN" agree.
func normalizeOperator(op string) Operator {
	if strings.EqualFold(op, string(OpIn)) {
		return OpIn
	}
	return Operator(op)
}

// MarshalJSON encodes the condition in dictionary form.
func (c *Condition) MarshalJSON() ([]byte, error) {
	if c.Op == OpIn {
		values := c.Values
		if values == nil {
			values = []model.Confidence{}
		}
		return json.Marshal(struct {
			Column string             `json:"column"`
			Op     Operator           `json:"op"`
			Values []model.Confidence `json:"values"`
		}{c.Column, c.Op, values})
	}
	return json.Marshal(struct {
		Column string           `json:"column"`
		Op     Operator         `json:"op"`
		Value  model.Confidence `json:"value"`
	}{c.Column, c.Op, c.Value})
}

// MarshalJSON encodes the logical node in dictionary form.
func (l *Logical) MarshalJSON() ([]byte, error) {
	conds := l.Conditions
	if conds == nil {
		conds = []Query{}
	}
	return json.Marshal(struct {
		Operator   LogicalOp `json:"operator"`
		Conditions []Query   `json:"conditions"`
	}{l.Op, conds})
}
