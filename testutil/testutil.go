package testutil

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/sparsetag/model"
	"github.com/hupe1980/sparsetag/query"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Level returns a uniformly drawn level, NONE included.
func (r *RNG) Level() model.Confidence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.Confidence(r.rand.Intn(int(model.MaxConfidence) + 1))
}

// StoredLevel returns a uniformly drawn non-NONE level.
func (r *RNG) StoredLevel() model.Confidence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.StoredLevels[r.rand.Intn(len(model.StoredLevels))]
}

// DenseTable generates a rows×cols table in which each cell is non-NONE
// with probability fill. Uses a single backing array.
// Locks only once per call.
func (r *RNG) DenseTable(rows, cols int, fill float64) [][]model.Confidence {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]model.Confidence, rows*cols)
	table := make([][]model.Confidence, rows)
	for i := range rows {
		row := data[i*cols : (i+1)*cols : (i+1)*cols]
		for j := range row {
			if r.rand.Float64() < fill {
				row[j] = model.StoredLevels[r.rand.Intn(len(model.StoredLevels))]
			}
		}
		table[i] = row
	}
	return table
}

// Condition draws a random single-column condition over names.
// Comparison values are never NONE so the condition is always valid.
func (r *RNG) Condition(names []string) *query.Condition {
	col := names[r.Intn(len(names))]
	ops := []query.Operator{
		query.OpEqual, query.OpNotEqual, query.OpGreaterThan,
		query.OpGreaterEqual, query.OpLessThan, query.OpLessEqual, query.OpIn,
	}
	op := ops[r.Intn(len(ops))]
	if op == query.OpIn {
		n := 1 + r.Intn(len(model.StoredLevels))
		vals := make([]model.Confidence, 0, n)
		for range n {
			vals = append(vals, r.StoredLevel())
		}
		return query.In(col, vals...)
	}
	return &query.Condition{Column: col, Op: op, Value: r.StoredLevel()}
}

// Query draws a random query tree of at most the given depth.
func (r *RNG) Query(names []string, depth int) query.Query {
	if depth <= 0 || r.Intn(3) == 0 {
		return r.Condition(names)
	}
	switch r.Intn(3) {
	case 0:
		return query.Negate(r.Query(names, depth-1))
	case 1:
		return query.AllOf(r.queries(names, depth-1)...)
	default:
		return query.AnyOf(r.queries(names, depth-1)...)
	}
}

func (r *RNG) queries(names []string, depth int) []query.Query {
	n := 1 + r.Intn(3)
	qs := make([]query.Query, 0, n)
	for range n {
		qs = append(qs, r.Query(names, depth))
	}
	return qs
}

// ColumnNames returns n distinct column names.
func ColumnNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("col_%d", i)
	}
	return names
}

// ExactMatches evaluates q by scanning every cell of a dense table.
// It panics on malformed queries; validate first.
func ExactMatches(q query.Query, dense [][]model.Confidence, names []string) []uint32 {
	out := []uint32{}
	for i, row := range dense {
		if matchRow(q, row, names) {
			out = append(out, uint32(i))
		}
	}
	return out
}

func matchRow(q query.Query, row []model.Confidence, names []string) bool {
	switch n := q.(type) {
	case *query.Condition:
		// Last duplicate name wins.
		col := -1
		for i, name := range names {
			if name == n.Column {
				col = i
			}
		}
		v := row[col]
		if v == model.None {
			return false
		}
		if strings.EqualFold(string(n.Op), string(query.OpIn)) {
			return slices.Contains(n.Values, v)
		}
		switch n.Op {
		case query.OpEqual:
			return v == n.Value
		case query.OpNotEqual:
			return v != n.Value
		case query.OpGreaterThan:
			return v > n.Value
		case query.OpGreaterEqual:
			return v >= n.Value
		case query.OpLessThan:
			return v < n.Value
		case query.OpLessEqual:
			return v <= n.Value
		}
		panic("testutil: unknown operator " + string(n.Op))
	case *query.Logical:
		switch query.LogicalOp(strings.ToUpper(string(n.Op))) {
		case query.And:
			for _, sub := range n.Conditions {
				if !matchRow(sub, row, names) {
					return false
				}
			}
			return true
		case query.Or:
			for _, sub := range n.Conditions {
				if matchRow(sub, row, names) {
					return true
				}
			}
			return false
		case query.Not:
			return hasAny(row) && !matchRow(n.Conditions[0], row, names)
		}
	}
	panic(fmt.Sprintf("testutil: unsupported query %T", q))
}

func hasAny(row []model.Confidence) bool {
	for _, v := range row {
		if v != model.None {
			return true
		}
	}
	return false
}
