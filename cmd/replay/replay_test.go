package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollpanel/internal/ops"
)

func loadTestConfig(t *testing.T) ops.Loaded {
	t.Helper()
	cfg, err := ops.Load("testdata/replay.json")
	require.NoError(t, err)
	return cfg
}

func TestRunRegular(t *testing.T) {
	rep, err := run(context.Background(), loadTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Records)
	assert.Equal(t, 12, rep.Bars)
	assert.Equal(t, 6, rep.Ticks)
	assert.Equal(t, 6, rep.Appended)
	assert.Equal(t, []string{"open_interest", "price", "volume"}, rep.Items)
	assert.Equal(t, []string{"ESH14", "ESM14"}, rep.Columns)

	start := time.Date(2014, 1, 10, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour)}, rep.Window.Dates)
	volume, ok := rep.Window.Series("volume", "ESH14")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 3, 0}, volume)

	require.Len(t, rep.Summaries, 2)
	assert.Equal(t, "ESH14", rep.Summaries[0].Column)
	assert.Equal(t, 3, rep.Summaries[0].Count)
	assert.Equal(t, 1832.5, rep.Summaries[0].Max)
	assert.Equal(t, 1825.0, rep.Summaries[1].Min)

	values := make([]float64, len(rep.Values))
	for i, v := range rep.Values {
		values[i] = v.Value
	}
	assert.Equal(t, []float64{10000, 10000, 10004.5, 10004.5, 10004.5, 10004.5}, values)
	assert.Equal(t, map[string]int64{"ESH14": 5}, rep.Positions)

	assert.Equal(t, uint64(6), rep.Metrics.Appends)
	assert.Equal(t, uint64(2), rep.Metrics.Rebuilds)
	assert.Equal(t, uint64(0), rep.Metrics.Rolls)
}

func TestRunIrregular(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Source.Mode = ops.ModeIrregular
	cfg.Source.Underlyings = nil
	cfg.Panel.Window = 2
	cfg.Panel.CapMultiple = 1

	rep, err := run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 5, rep.Records)
	assert.Equal(t, 5, rep.Ticks)
	assert.Equal(t, 5, rep.Appended)
	assert.Equal(t, []string{"ESH14", "ZNH14"}, rep.Columns)
	assert.Equal(t, uint64(3), rep.Metrics.Rolls)
}

func TestRunSyntheticRetiresExpiredContract(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Source.File = ""
	cfg.Source.Mode = ops.ModeIrregular
	cfg.Source.Interval.Start = time.Date(2014, 3, 31, 22, 0, 0, 0, time.UTC)
	cfg.Source.Synthetic = &ops.SyntheticSpec{
		Contracts: []string{"ESH14", "ESM14"},
		Count:     4,
		Every:     time.Hour,
		BasePrice: 1830,
		BaseSize:  1,
		TickSize:  0.25,
	}
	cfg.Panel.Window = 1

	rep, err := run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Appended)
	assert.Equal(t, []string{"ESM14"}, rep.Columns)
	assert.Equal(t, uint64(2), rep.Metrics.Rebuilds)
	assert.Equal(t, uint64(1), rep.Metrics.DroppedColumns)
	assert.Equal(t, map[string]int64{"ESH14": 2}, rep.Positions)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := run(ctx, loadTestConfig(t))
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Appended)
	assert.Equal(t, 6, rep.Ticks)
	assert.Empty(t, rep.Summaries)
	assert.Empty(t, rep.Values)
}
