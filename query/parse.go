package query

import (
	"fmt"
	"math"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hupe1980/sparsetag/model"
)

// Parse decodes a query from its JSON dictionary form. A node with an
// "operator" key is logical; anything else is a condition. Missing fields
// yield ErrInvalidQueryStructure; operator and column checks are left to
// Validate.
func Parse(data []byte) (Query, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, structureErrorf("query must be a JSON object: %v", err)
	}
	return parseNode(raw)
}

// FromMap converts a loosely typed query dictionary into a Query.
func FromMap(m map[string]any) (Query, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, structureErrorf("query dictionary is not serializable: %v", err)
	}
	return Parse(data)
}

func present(raw map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil, false
	}
	return v, true
}

func parseNode(raw map[string]json.RawMessage) (Query, error) {
	if opRaw, ok := present(raw, "operator"); ok {
		return parseLogical(opRaw, raw)
	}
	return parseCondition(raw)
}

func parseLogical(opRaw json.RawMessage, raw map[string]json.RawMessage) (Query, error) {
	var op string
	if err := json.Unmarshal(opRaw, &op); err != nil {
		return nil, structureErrorf("'operator' must be a string")
	}
	op = strings.ToUpper(op)

	condsRaw, ok := present(raw, "conditions")
	if !ok {
		return nil, structureErrorf("%s operator requires 'conditions' list", op)
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(condsRaw, &items); err != nil {
		return nil, structureErrorf("'conditions' must be a list of queries")
	}
	if len(items) == 0 {
		return nil, structureErrorf("%s operator requires 'conditions' list", op)
	}

	conds := make([]Query, 0, len(items))
	for _, item := range items {
		sub, err := parseNode(item)
		if err != nil {
			return nil, err
		}
		conds = append(conds, sub)
	}
	return &Logical{Op: LogicalOp(op), Conditions: conds}, nil
}

func parseCondition(raw map[string]json.RawMessage) (Query, error) {
	colRaw, ok := present(raw, "column")
	if !ok {
		return nil, structureErrorf("condition requires 'column'")
	}
	var column string
	if err := json.Unmarshal(colRaw, &column); err != nil {
		return nil, structureErrorf("'column' must be a string")
	}

	opRaw, ok := present(raw, "op")
	if !ok {
		return nil, structureErrorf("condition on column %q requires 'op'", column)
	}
	var opStr string
	if err := json.Unmarshal(opRaw, &opStr); err != nil {
		return nil, structureErrorf("'op' must be a string")
	}
	op := normalizeOperator(opStr)

	cond := &Condition{Column: column, Op: op}
	if op == OpIn {
		valuesRaw, ok := present(raw, "values")
		if !ok {
			return nil, structureErrorf("IN operator on column %q requires 'values' list", column)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(valuesRaw, &items); err != nil {
			return nil, structureErrorf("'values' must be a list")
		}
		for _, item := range items {
			v, err := parseValue(column, item)
			if err != nil {
				return nil, err
			}
			cond.Values = append(cond.Values, v)
		}
		return cond, nil
	}

	valueRaw, ok := present(raw, "value")
	if !ok {
		return nil, structureErrorf("operator %q on column %q requires 'value' field", opStr, column)
	}
	v, err := parseValue(column, valueRaw)
	if err != nil {
		return nil, err
	}
	cond.Value = v
	return cond, nil
}

// parseValue accepts an integer level or a level name.
func parseValue(column string, raw json.RawMessage) (model.Confidence, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return model.None, structureErrorf("malformed value %s", raw)
	}

	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || x < 0 || x > float64(model.MaxConfidence) {
			return model.None, &ValueError{Column: column, Value: clampInt(x), Reason: "must be an integer 0-3"}
		}
		return model.Confidence(x), nil
	case string:
		c, err := model.ParseConfidence(x)
		if err != nil {
			return model.None, fmt.Errorf("%w: column %q: %v", ErrInvalidValue, column, err)
		}
		return c, nil
	default:
		return model.None, fmt.Errorf("%w: column %q: unsupported value %s", ErrInvalidValue, column, raw)
	}
}

func clampInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	default:
		return int(f)
	}
}
