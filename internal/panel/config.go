package panel

import (
	"math/bits"

	"rollpanel/internal/errors"
	"rollpanel/internal/obs"
	"rollpanel/pkg/exception"
)

const (
	defaultCapMultiple = 2
	defaultMaxCells    = 1 << 28
	maxInt             = int(^uint(0) >> 1)
)

// FillPolicy decides what a slot holds for labels missing from the frame
// written into it.
type FillPolicy uint8

const (
	// FillMissing resets the slot to NaN before the frame is written.
	FillMissing FillPolicy = iota
	// FillKeep leaves whatever the slot held before it was reused.
	FillKeep
)

func (f FillPolicy) String() string {
	switch f {
	case FillMissing:
		return "missing"
	case FillKeep:
		return "keep"
	default:
		return "unknown"
	}
}

// ParseFillPolicy maps a config name to a policy. Empty selects FillMissing.
func ParseFillPolicy(name string) (FillPolicy, error) {
	switch name {
	case "", "missing":
		return FillMissing, nil
	case "keep":
		return FillKeep, nil
	default:
		return 0, errors.Wrapf(exception.ErrInvalidConfig, "fill policy %q", name)
	}
}

// Config controls buffer sizing.
type Config struct {
	Window      int
	CapMultiple int
	Fill        FillPolicy
	// MaxCells caps items x capacity x columns.
	MaxCells int
	Metrics  *obs.Metrics
}

// DefaultConfig returns a baseline configuration for the given window.
func DefaultConfig(window int) Config {
	return Config{
		Window:      window,
		CapMultiple: defaultCapMultiple,
		Fill:        FillMissing,
		MaxCells:    defaultMaxCells,
	}
}

func (c Config) withDefaults() Config {
	if c.CapMultiple == 0 {
		c.CapMultiple = defaultCapMultiple
	}
	if c.MaxCells == 0 {
		c.MaxCells = defaultMaxCells
	}
	return c
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.Window < 1 {
		return errors.Wrap(exception.ErrInvalidConfig, "Window must be >= 1")
	}
	if c.CapMultiple < 1 {
		return errors.Wrap(exception.ErrInvalidConfig, "CapMultiple must be >= 1")
	}
	if c.Fill != FillMissing && c.Fill != FillKeep {
		return errors.Wrapf(exception.ErrInvalidConfig, "Fill %d", c.Fill)
	}
	if c.MaxCells < 1 {
		return errors.Wrap(exception.ErrInvalidConfig, "MaxCells must be >= 1")
	}
	if _, ok := mulInt(c.Window, c.CapMultiple); !ok {
		return errors.Wrap(exception.ErrAllocation, "Window x CapMultiple overflows")
	}
	return nil
}

func (c Config) capacity() int {
	return c.Window * c.CapMultiple
}

// cells returns the buffer length for the given axis sizes.
func (c Config) cells(items, columns int) (int, error) {
	n, ok := mulInt(items, c.capacity())
	if ok {
		n, ok = mulInt(n, columns)
	}
	if !ok || n > c.MaxCells {
		return 0, errors.Wrapf(exception.ErrAllocation,
			"%d items x %d slots x %d columns exceeds %d cells", items, c.capacity(), columns, c.MaxCells)
	}
	return n, nil
}

func mulInt(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(maxInt) {
		return 0, false
	}
	return int(lo), true
}
