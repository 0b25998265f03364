package obs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncAppend()
	m.IncAppend()
	m.IncRoll()
	m.IncUnknownLabel()
	m.IncShapeReject()
	m.ObserveRebuild(3*time.Millisecond, 1, 0, 2, 1)
	m.ObserveRebuild(time.Millisecond, 0, 1, 0, 0)

	s := m.Snapshot()
	assert.Equal(t, uint64(2), s.Appends)
	assert.Equal(t, uint64(1), s.Rolls)
	assert.Equal(t, uint64(2), s.Rebuilds)
	assert.Equal(t, uint64(1), s.UnknownLabels)
	assert.Equal(t, uint64(1), s.ShapeRejects)
	assert.Equal(t, uint64(1), s.DroppedItems)
	assert.Equal(t, uint64(1), s.AddedItems)
	assert.Equal(t, uint64(2), s.DroppedColumns)
	assert.Equal(t, uint64(1), s.AddedColumns)

	require.Equal(t, uint64(2), s.RebuildLatency.Count)
	assert.Equal(t, time.Millisecond, s.RebuildLatency.Min)
	assert.Equal(t, 3*time.Millisecond, s.RebuildLatency.Max)
	assert.Equal(t, 2*time.Millisecond, s.RebuildLatency.Avg)
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	m.IncAppend()
	m.IncRoll()
	m.ObserveRebuild(time.Second, 1, 1, 1, 1)
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestLatencyStatsIgnoresNegative(t *testing.T) {
	var l LatencyStats
	l.Observe(-time.Second)
	assert.Equal(t, LatencySnapshot{}, l.Snapshot())
}
