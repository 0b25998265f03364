package stats

import (
	"math"
	"slices"

	"github.com/DataDog/sketches-go/ddsketch"

	"rollpanel/internal/errors"
	"rollpanel/internal/panel"
	"rollpanel/pkg/exception"
)

const defaultAccuracy = 0.01

// Summary describes one column of a window block. Count, Sum, Min and Max
// are exact; Quantiles are within the sketch's relative accuracy. A column
// without values reports NaN for everything but Count.
type Summary struct {
	Column    string
	Count     int
	Sum       float64
	Min       float64
	Max       float64
	Mean      float64
	Quantiles []float64
}

// Summarize sketches every column of item across the block's slots, skipping
// missing values. An accuracy of zero selects 1%.
func Summarize[T panel.Float](b *panel.Block[T], item string, quantiles []float64, accuracy float64) ([]Summary, error) {
	i := slices.Index(b.Items, item)
	if i < 0 {
		return nil, errors.Wrapf(exception.ErrUnknownLabel, "field %q", item)
	}
	if accuracy == 0 {
		accuracy = defaultAccuracy
	}

	out := make([]Summary, 0, len(b.Columns))
	for c, column := range b.Columns {
		sketch, err := ddsketch.NewDefaultDDSketchWithExactSummaryStatistics(accuracy)
		if err != nil {
			return nil, errors.Wrap(err, "new sketch")
		}

		for t := range b.Len() {
			v := b.At(i, t, c)
			if panel.IsMissing(v) {
				continue
			}
			if err := sketch.Add(float64(v)); err != nil {
				return nil, errors.Wrapf(err, "add %s value", column)
			}
		}

		s, err := summarize(column, sketch, quantiles)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}

func summarize(column string, sketch *ddsketch.DDSketchWithExactSummaryStatistics, quantiles []float64) (Summary, error) {
	s := Summary{Column: column, Count: int(sketch.GetCount())}
	if sketch.IsEmpty() {
		nan := math.NaN()
		s.Sum, s.Min, s.Max, s.Mean = nan, nan, nan, nan
		s.Quantiles = make([]float64, len(quantiles))
		for k := range s.Quantiles {
			s.Quantiles[k] = nan
		}
		return s, nil
	}

	var err error
	if s.Min, err = sketch.GetMinValue(); err != nil {
		return Summary{}, errors.Wrap(err, "min")
	}
	if s.Max, err = sketch.GetMaxValue(); err != nil {
		return Summary{}, errors.Wrap(err, "max")
	}
	if s.Quantiles, err = sketch.GetValuesAtQuantiles(quantiles); err != nil {
		return Summary{}, errors.Wrapf(err, "quantiles %v", quantiles)
	}
	s.Sum = sketch.GetSum()
	s.Mean = s.Sum / float64(s.Count)

	return s, nil
}
