package obs

import (
	"sync/atomic"
	"time"
)

// Metrics collects lightweight panel counters and rebuild latency stats.
type Metrics struct {
	appends        uint64
	rolls          uint64
	rebuilds       uint64
	unknownLabels  uint64
	shapeRejects   uint64
	droppedItems   uint64
	droppedColumns uint64
	addedItems     uint64
	addedColumns   uint64

	rebuildLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Appends        uint64
	Rolls          uint64
	Rebuilds       uint64
	UnknownLabels  uint64
	ShapeRejects   uint64
	DroppedItems   uint64
	DroppedColumns uint64
	AddedItems     uint64
	AddedColumns   uint64
	RebuildLatency LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncAppend records a successful append.
func (m *Metrics) IncAppend() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.appends, 1)
}

// IncRoll records a roll of the window to the front of the buffer.
func (m *Metrics) IncRoll() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.rolls, 1)
}

// IncUnknownLabel records an append rejected for labels outside the axes.
func (m *Metrics) IncUnknownLabel() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.unknownLabels, 1)
}

// IncShapeReject records a window overwrite rejected for its shape.
func (m *Metrics) IncShapeReject() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.shapeRejects, 1)
}

// ObserveRebuild records an axis rebuild with the label churn on each axis.
func (m *Metrics) ObserveRebuild(d time.Duration, droppedItems, addedItems, droppedColumns, addedColumns int) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.rebuilds, 1)
	atomic.AddUint64(&m.droppedItems, uint64(droppedItems))
	atomic.AddUint64(&m.addedItems, uint64(addedItems))
	atomic.AddUint64(&m.droppedColumns, uint64(droppedColumns))
	atomic.AddUint64(&m.addedColumns, uint64(addedColumns))
	m.rebuildLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Appends:        atomic.LoadUint64(&m.appends),
		Rolls:          atomic.LoadUint64(&m.rolls),
		Rebuilds:       atomic.LoadUint64(&m.rebuilds),
		UnknownLabels:  atomic.LoadUint64(&m.unknownLabels),
		ShapeRejects:   atomic.LoadUint64(&m.shapeRejects),
		DroppedItems:   atomic.LoadUint64(&m.droppedItems),
		DroppedColumns: atomic.LoadUint64(&m.droppedColumns),
		AddedItems:     atomic.LoadUint64(&m.addedItems),
		AddedColumns:   atomic.LoadUint64(&m.addedColumns),
		RebuildLatency: m.rebuildLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min)),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(sum / count),
	}
}
