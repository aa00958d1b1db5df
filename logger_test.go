package sparsetag

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hupe1980/sparsetag/model"
	"github.com/stretchr/testify/assert"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return NewLogger(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogger_Operations(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	l := newBufferLogger(&buf).WithTable(3, 1).WithColumn("Tag1")

	l.LogQuery(ctx, 2, true, nil)
	l.LogQuery(ctx, 0, false, errors.New("boom"))
	l.LogReplace(ctx, 4, 10, nil)
	l.LogCacheClear(ctx, 3)
	l.LogOptimize(ctx, OptimizeResult{Outcome: OptimizeSkippedOffset, To: Width8, MaxOffset: 400})

	out := buf.String()
	assert.Contains(t, out, "query completed")
	assert.Contains(t, out, "cached=true")
	assert.Contains(t, out, "query rejected")
	assert.Contains(t, out, "data replaced")
	assert.Contains(t, out, "result cache cleared")
	assert.Contains(t, out, "index width optimization skipped")
	assert.Contains(t, out, "reason=skipped_offset")
	assert.Contains(t, out, "column=Tag1")
	assert.Contains(t, out, "rows=3")
}

func TestLogger_LowSparsityWarning(t *testing.T) {
	var buf bytes.Buffer
	_, err := FromDense([][]model.Confidence{{L, M}, {H, L}}, []string{"a", "b"},
		WithLogger(newBufferLogger(&buf)))
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "low sparsity")

	buf.Reset()
	_, err = FromDense([][]model.Confidence{{L, M}, {H, L}}, []string{"a", "b"},
		WithLogger(newBufferLogger(&buf)), WithSparsityThreshold(-1))
	assert.NoError(t, err)
	assert.NotContains(t, buf.String(), "low sparsity")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
