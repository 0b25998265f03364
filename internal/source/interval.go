package source

import (
	"time"

	"rollpanel/internal/errors"
	"rollpanel/pkg/exception"
)

var defaultStep = time.Hour

// Interval bounds a regular bar stream. Bars are stamped at Start + k*Step
// and cover trades in [Start + (k-1)*Step, Start + k*Step).
type Interval struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

func (iv Interval) withDefaults() Interval {
	if iv.Step == 0 {
		iv.Step = defaultStep
	}
	return iv
}

// Validate checks if the interval is usable.
func (iv Interval) Validate() error {
	if iv.Step <= 0 {
		return errors.Wrap(exception.ErrSourceInvalidInterval, "Step must be > 0")
	}
	if !iv.End.After(iv.Start) {
		return errors.Wrap(exception.ErrSourceInvalidInterval, "End must be after Start")
	}
	return nil
}

func (iv Interval) contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}
