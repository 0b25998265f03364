package source

import (
	"cmp"
	"math"
	"slices"
	"time"

	"rollpanel/internal/model"
)

// Irregular emits one bar per trade, stamped with the trade's own time.
// A trade without a price yields a NaN price; one without a size yields zero
// volume.
func Irregular(records []model.TradeRecord) []model.Bar {
	sorted := sortedRecords(records)
	bars := make([]model.Bar, 0, len(sorted))
	for _, r := range sorted {
		bar := model.Bar{
			Dt:           r.Timestamp,
			Sid:          r.Sid(),
			Price:        math.NaN(),
			OpenInterest: cloneInt(r.OpenInterest),
		}
		if r.Price != nil {
			bar.Price = *r.Price
		}
		if r.Size != nil {
			bar.Volume = *r.Size
		}
		bars = append(bars, bar)
	}
	return bars
}

// Regular aggregates trades into fixed intervals per contract. Volume is
// summed within an interval; price and open interest carry the last reported
// value forward, so intervals without trades still produce a bar with zero
// volume. Zero and missing prices never replace a known price, and a
// contract emits nothing until its first priced trade.
func Regular(records []model.TradeRecord, iv Interval) ([]model.Bar, error) {
	iv = iv.withDefaults()
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	var bars []model.Bar
	states := map[string]*intervalState{}
	for _, r := range sortedRecords(records) {
		if !iv.contains(r.Timestamp) {
			continue
		}

		sid := r.Sid()
		st, ok := states[sid]
		if !ok {
			st = &intervalState{sid: sid, cur: iv.Start, step: iv.Step}
			states[sid] = st
		}

		bars = st.advance(r.Timestamp, bars)
		st.add(r)
	}

	for _, st := range states {
		bars = st.advance(iv.End, bars)
	}

	slices.SortStableFunc(bars, func(a, b model.Bar) int {
		if c := a.Dt.Compare(b.Dt); c != 0 {
			return c
		}
		return cmp.Compare(a.Sid, b.Sid)
	})
	return bars, nil
}

type intervalState struct {
	sid  string
	cur  time.Time
	step time.Duration

	volume       int64
	price        float64
	hasPrice     bool
	openInterest *int64
}

// advance closes every interval ending at or before t.
func (st *intervalState) advance(t time.Time, bars []model.Bar) []model.Bar {
	for next := st.cur.Add(st.step); !t.Before(next); next = st.cur.Add(st.step) {
		st.cur = next
		if st.hasPrice {
			bars = append(bars, model.Bar{
				Dt:           next,
				Sid:          st.sid,
				Price:        st.price,
				Volume:       st.volume,
				OpenInterest: cloneInt(st.openInterest),
			})
		}
		st.volume = 0
	}
	return bars
}

func (st *intervalState) add(r model.TradeRecord) {
	if r.Size != nil {
		st.volume += *r.Size
	}
	if r.Price != nil && *r.Price != 0 && !math.IsNaN(*r.Price) {
		st.price = *r.Price
		st.hasPrice = true
	}
	if r.OpenInterest != nil {
		st.openInterest = r.OpenInterest
	}
}

func sortedRecords(records []model.TradeRecord) []model.TradeRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.TradeRecord) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

func cloneInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
