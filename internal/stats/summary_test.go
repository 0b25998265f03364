package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollpanel/internal/panel"
	"rollpanel/pkg/exception"
)

func TestSummarize(t *testing.T) {
	dates := make([]time.Time, 100)
	for i := range dates {
		dates[i] = time.Date(2014, 1, 10, 14, i, 0, 0, time.UTC)
	}
	b := panel.NewBlock[float64]([]string{"price", "volume"}, []string{"ESH14", "ZNM14"}, dates)
	for k := range dates {
		b.Set(0, k, 0, float64(k+1))
	}

	out, err := Summarize(b, "price", []float64{0.5, 0.99}, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)

	es := out[0]
	assert.Equal(t, "ESH14", es.Column)
	assert.Equal(t, 100, es.Count)
	assert.Equal(t, 5050.0, es.Sum)
	assert.Equal(t, 1.0, es.Min)
	assert.Equal(t, 100.0, es.Max)
	assert.Equal(t, 50.5, es.Mean)
	require.Len(t, es.Quantiles, 2)
	assert.InEpsilon(t, 50, es.Quantiles[0], 0.03)
	assert.InEpsilon(t, 99, es.Quantiles[1], 0.03)

	zn := out[1]
	assert.Equal(t, 0, zn.Count)
	assert.True(t, math.IsNaN(zn.Mean))
	require.Len(t, zn.Quantiles, 2)
	assert.True(t, math.IsNaN(zn.Quantiles[1]))
}

func TestSummarizeErrors(t *testing.T) {
	b := panel.NewBlock[float32]([]string{"price"}, []string{"ESH14"}, []time.Time{time.Unix(0, 0)})
	b.Set(0, 0, 0, 3)

	_, err := Summarize(b, "volume", nil, 0)
	require.ErrorIs(t, err, exception.ErrUnknownLabel)

	_, err = Summarize(b, "price", []float64{1.5}, 0)
	require.Error(t, err)

	_, err = Summarize(b, "price", nil, -1)
	require.Error(t, err)
}
