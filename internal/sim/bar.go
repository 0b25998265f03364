package sim

import (
	"slices"
	"time"

	"rollpanel/internal/errors"
	"rollpanel/internal/panel"
	"rollpanel/pkg/exception"
)

// Bar is what a strategy sees at one tick: the price of every symbol that
// traded.
type Bar struct {
	Ts     time.Time
	Prices map[string]float64
}

// BarsFromBlock turns the field of a window block into one bar per slot.
// Missing values are left out of the bar.
func BarsFromBlock[T panel.Float](b *panel.Block[T], field string) ([]Bar, error) {
	i := slices.Index(b.Items, field)
	if i < 0 {
		return nil, errors.Wrapf(exception.ErrUnknownLabel, "field %q", field)
	}

	bars := make([]Bar, b.Len())
	for t := range bars {
		bars[t] = barAt(b, i, t)
	}
	return bars, nil
}

// LatestBar returns the newest slot of the block as a bar.
func LatestBar[T panel.Float](b *panel.Block[T], field string) (Bar, bool) {
	i := slices.Index(b.Items, field)
	if i < 0 || b.Len() == 0 {
		return Bar{}, false
	}
	return barAt(b, i, b.Len()-1), true
}

func barAt[T panel.Float](b *panel.Block[T], i, t int) Bar {
	bar := Bar{Ts: b.Dates[t], Prices: make(map[string]float64, len(b.Columns))}
	for c, column := range b.Columns {
		if v := b.At(i, t, c); !panel.IsMissing(v) {
			bar.Prices[column] = float64(v)
		}
	}
	return bar
}
