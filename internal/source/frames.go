package source

import (
	"time"

	"rollpanel/internal/model"
	"rollpanel/internal/panel"
)

// Tick is one frame ready to be appended to a panel.
type Tick struct {
	Time  time.Time
	Frame panel.Frame[float64]
}

// Frames groups time-ordered bars sharing a timestamp into one frame each,
// with fields price, volume and open_interest and one column per contract.
// Bars repeating a contract within a timestamp sum their volume and keep the
// last price. NaN prices and missing open interest are left out of the frame.
func Frames(bars []model.Bar) []Tick {
	var ticks []Tick
	for _, bar := range bars {
		if len(ticks) == 0 || !ticks[len(ticks)-1].Time.Equal(bar.Dt) {
			ticks = append(ticks, Tick{Time: bar.Dt, Frame: panel.Frame[float64]{}})
		}

		frame := ticks[len(ticks)-1].Frame
		if !panel.IsMissing(bar.Price) {
			row(frame, model.FieldPrice)[bar.Sid] = bar.Price
		}
		row(frame, model.FieldVolume)[bar.Sid] += float64(bar.Volume)
		if bar.OpenInterest != nil {
			row(frame, model.FieldOpenInterest)[bar.Sid] = float64(*bar.OpenInterest)
		}
	}
	return ticks
}

func row(frame panel.Frame[float64], field string) map[string]float64 {
	r, ok := frame[field]
	if !ok {
		r = map[string]float64{}
		frame[field] = r
	}
	return r
}
