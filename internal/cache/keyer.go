package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/zeebo/xxh3"

	"github.com/hupe1980/sparsetag/query"
)

// Key path prefixes. Distinct prefixes keep the encodings disjoint.
const (
	prefixCondition = "c1|"
	prefixJSON      = "j1|"
	prefixRepr      = "r1|"
)

// Keyer derives cache keys from queries.
type Keyer struct {
	marshal func(v any) ([]byte, error)
}

// NewKeyer returns a keyer. A nil marshal uses go-json.
func NewKeyer(marshal func(v any) ([]byte, error)) *Keyer {
	if marshal == nil {
		marshal = json.Marshal
	}
	return &Keyer{marshal: marshal}
}

// Key digests q.
func (k *Keyer) Key(q query.Query) Key {
	return digest(k.encode(q))
}

func (k *Keyer) encode(q query.Query) []byte {
	if c, ok := q.(*query.Condition); ok && c != nil {
		return encodeCondition(c)
	}
	if b, err := k.marshal(q); err == nil {
		return append([]byte(prefixJSON), b...)
	}
	var sb strings.Builder
	sb.WriteString(prefixRepr)
	writeRepr(&sb, q)
	return []byte(sb.String())
}

func digest(b []byte) Key {
	h := xxh3.Hash128(b)
	return Key{Hi: h.Hi, Lo: h.Lo}
}

func encodeCondition(c *query.Condition) []byte {
	b := make([]byte, 0, 32+len(c.Column))
	b = append(b, prefixCondition...)
	b = appendField(b, c.Column)
	b = appendField(b, string(c.Op))
	if c.Op == query.OpIn {
		b = append(b, 'v', ':')
		b = strconv.AppendInt(b, int64(len(c.Values)), 10)
		for _, v := range c.Values {
			b = append(b, ',')
			b = strconv.AppendUint(b, uint64(v), 10)
		}
		return b
	}
	b = append(b, 's', ':')
	return strconv.AppendUint(b, uint64(c.Value), 10)
}

func appendField(b []byte, s string) []byte {
	b = strconv.AppendInt(b, int64(len(s)), 10)
	b = append(b, ':')
	b = append(b, s...)
	return append(b, '|')
}

func writeRepr(sb *strings.Builder, q query.Query) {
	switch n := q.(type) {
	case *query.Condition:
		if n == nil {
			sb.WriteString("nil")
			return
		}
		fmt.Fprintf(sb, "%#v", *n)
	case *query.Logical:
		if n == nil {
			sb.WriteString("nil")
			return
		}
		fmt.Fprintf(sb, "L(%q", n.Op)
		for _, sub := range n.Conditions {
			sb.WriteByte(',')
			writeRepr(sb, sub)
		}
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "%T", q)
	}
}
