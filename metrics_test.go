package sparsetag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/sparsetag/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	b := &BasicMetricsCollector{}

	b.RecordQuery(3, false, 10*time.Millisecond, nil)
	b.RecordQuery(3, true, 20*time.Millisecond, nil)
	b.RecordQuery(0, false, 30*time.Millisecond, errors.New("bad"))
	b.RecordReplace(5, time.Millisecond, nil)
	b.RecordReplace(0, time.Millisecond, errors.New("bad"))
	b.RecordCacheClear(4)
	b.RecordOptimize(true, 12)
	b.RecordOptimize(false, 0)

	s := b.GetStats()
	assert.Equal(t, int64(3), s.QueryCount)
	assert.Equal(t, int64(1), s.QueryErrors)
	assert.Equal(t, int64(1), s.QueryCacheHits)
	assert.Equal(t, int64(6), s.QueryMatches)
	assert.Equal(t, (20 * time.Millisecond).Nanoseconds(), s.QueryAvgNanos)
	assert.Equal(t, int64(2), s.ReplaceCount)
	assert.Equal(t, int64(1), s.ReplaceErrors)
	assert.Equal(t, int64(1), s.CacheClearCount)
	assert.Equal(t, int64(2), s.OptimizeCount)
	assert.Equal(t, int64(1), s.OptimizeApplied)
	assert.Equal(t, int64(12), s.OptimizeSaved)
}

func TestTable_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	tbl := newThreeRowTable(t, WithMetricsCollector(metrics))

	_, err := tbl.Query(ctx, query.Eq("Tag1", L))
	require.NoError(t, err)
	_, err = tbl.Query(ctx, query.Eq("Tag1", L))
	require.NoError(t, err)
	_, err = tbl.Query(ctx, query.Eq("Missing", L))
	require.Error(t, err)
	require.NoError(t, tbl.ReplaceData(tbl.Triple()))

	s := metrics.GetStats()
	assert.Equal(t, int64(3), s.QueryCount)
	assert.Equal(t, int64(1), s.QueryErrors)
	assert.Equal(t, int64(1), s.QueryCacheHits)
	assert.Equal(t, int64(1), s.ReplaceCount)
	assert.Equal(t, int64(1), s.CacheClearCount)
}

func TestNilMetricsCollectorFallsBackToNoop(t *testing.T) {
	tbl := newThreeRowTable(t, WithMetricsCollector(nil), WithLogger(nil))
	_, err := tbl.Query(context.Background(), query.Eq("Tag1", L))
	assert.NoError(t, err)
}
