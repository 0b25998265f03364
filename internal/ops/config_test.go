package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollpanel/internal/panel"
	"rollpanel/internal/sim"
	"rollpanel/pkg/exception"
)

const fileConfig = `{
  "panel": {"window": 6, "capMultiple": 3, "fill": "keep", "items": ["price"]},
  "source": {
    "file": "testdata/trades.json",
    "start": "2014-01-10T00:00:00Z",
    "end": "2014-01-11T00:00:00Z",
    "step": "30m"
  },
  "sim": {
    "kind": "futures",
    "startingCash": 100000,
    "initRate": 0.1,
    "maintRate": 0.05,
    "contractSizes": {"ESH14": 50},
    "strategy": {"name": "buy_every_bar", "symbol": "ESH14", "amount": 2}
  },
  "stats": {"quantiles": [0.25, 0.75], "every": 10}
}`

func TestParseFileSource(t *testing.T) {
	cfg, err := Parse([]byte(fileConfig))
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Panel.Window)
	assert.Equal(t, 3, cfg.Panel.CapMultiple)
	assert.Equal(t, panel.FillKeep, cfg.Panel.Fill)
	assert.Equal(t, panel.DefaultConfig(1).MaxCells, cfg.Panel.MaxCells)
	assert.Equal(t, []string{"price"}, cfg.Items)
	assert.Nil(t, cfg.Postgres)

	assert.Equal(t, "testdata/trades.json", cfg.Source.File)
	assert.Equal(t, ModeRegular, cfg.Source.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Source.Interval.Step)
	assert.Equal(t, time.Date(2014, 1, 10, 0, 0, 0, 0, time.UTC), cfg.Source.Interval.Start)

	assert.True(t, cfg.SimEnabled())
	assert.Equal(t, sim.KindFutures, cfg.Sim.Kind)
	assert.Equal(t, 50.0, cfg.Sim.ContractSizes["ESH14"])
	assert.Equal(t, int64(2), cfg.Strategy.Amount)

	assert.Equal(t, "price", cfg.Stats.Field)
	assert.Equal(t, []float64{0.25, 0.75}, cfg.Stats.Quantiles)
	assert.Equal(t, 0.01, cfg.Stats.Accuracy)
	assert.Equal(t, 10, cfg.Stats.Every)
}

func TestParsePostgresSource(t *testing.T) {
	cfg, err := Parse([]byte(`{
	  "postgres": {"host": "db", "database": "ticks", "tradeTable": "es_trades"},
	  "source": {"underlyings": ["ES", " ", "ZN"], "start": "2014-01-10T00:00:00Z", "end": "2014-01-10T06:00:00Z"}
	}`))
	require.NoError(t, err)

	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, "es_trades", cfg.Postgres.TradeTable)
	assert.Equal(t, []string{"ES", "ZN"}, cfg.Source.Underlyings)
	assert.Equal(t, 24, cfg.Panel.Window)
	assert.Equal(t, panel.FillMissing, cfg.Panel.Fill)
	assert.False(t, cfg.SimEnabled())
}

func TestParseSyntheticSource(t *testing.T) {
	cfg, err := Parse([]byte(`{
	  "source": {
	    "synthetic": {"contracts": ["ESH14", "ESM14"], "count": 100, "basePrice": 1830},
	    "mode": "irregular",
	    "start": "2014-03-01T00:00:00Z"
	  }
	}`))
	require.NoError(t, err)

	require.NotNil(t, cfg.Source.Synthetic)
	assert.Nil(t, cfg.Postgres)
	assert.Equal(t, time.Minute, cfg.Source.Synthetic.Every)
	assert.Equal(t, 100, cfg.Source.Synthetic.Count)
	assert.Equal(t, 1830.0, cfg.Source.Synthetic.BasePrice)

	_, err = Parse([]byte(`{"source": {"synthetic": {"contracts": ["ESH14"]}, "mode": "irregular"}}`))
	require.Error(t, err)
	_, err = Parse([]byte(`{"source": {"synthetic": {"count": 1}, "mode": "irregular"}}`))
	require.Error(t, err)
	_, err = Parse([]byte(`{"source": {"synthetic": {"contracts": ["ESH14"], "count": 1, "every": "-1s"}, "mode": "irregular"}}`))
	require.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"json":        `{`,
		"fill":        `{"panel": {"fill": "zero"}, "source": {"file": "x", "mode": "irregular"}}`,
		"window":      `{"panel": {"window": -1}, "source": {"file": "x", "mode": "irregular"}}`,
		"mode":        `{"source": {"file": "x", "mode": "tick"}}`,
		"no source":   `{"source": {}}`,
		"interval":    `{"source": {"underlyings": ["ES"], "start": "2014-01-10T00:00:00Z"}}`,
		"start":       `{"source": {"file": "x", "start": "yesterday"}}`,
		"step":        `{"source": {"file": "x", "mode": "irregular", "step": "often"}}`,
		"strategy":    `{"source": {"file": "x", "mode": "irregular"}, "sim": {"startingCash": 1, "strategy": {"name": "hold", "symbol": "A"}}}`,
		"sim":         `{"source": {"file": "x", "mode": "irregular"}, "sim": {"strategy": {"name": "buy_every_bar", "symbol": "A"}}}`,
		"quantile":    `{"source": {"file": "x", "mode": "irregular"}, "stats": {"quantiles": [2]}}`,
		"accuracy":    `{"source": {"file": "x", "mode": "irregular"}, "stats": {"accuracy": 1}}`,
		"stats every": `{"source": {"file": "x", "mode": "irregular"}, "stats": {"every": -1}}`,
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}

	_, err := Parse([]byte(`{"panel": {"fill": "zero"}, "source": {"file": "x", "mode": "irregular"}}`))
	require.ErrorIs(t, err, exception.ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.json")
	require.NoError(t, os.WriteFile(path, []byte(fileConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Panel.Window)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
