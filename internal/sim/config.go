package sim

import (
	"rollpanel/internal/errors"
	"rollpanel/internal/risk"
	"rollpanel/pkg/exception"
)

const (
	KindStock   = "stock"
	KindFutures = "futures"
)

// Config controls account sizing. InitRate and MaintRate only apply to
// futures; ContractSizes defaults to 1 for unlisted symbols.
type Config struct {
	Kind          string             `json:"kind"`
	StartingCash  float64            `json:"startingCash"`
	InitRate      float64            `json:"initRate"`
	MaintRate     float64            `json:"maintRate"`
	ContractSizes map[string]float64 `json:"contractSizes"`
	Risk          risk.Config        `json:"risk"`
}

func (c Config) withDefaults() Config {
	if c.Kind == "" {
		c.Kind = KindStock
	}
	return c
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.StartingCash <= 0 {
		return errors.Wrap(exception.ErrSimInvalidParams, "startingCash must be > 0")
	}
	switch c.Kind {
	case KindStock, "":
	case KindFutures:
		if c.InitRate <= 0 || c.InitRate > 1 {
			return errors.Wrap(exception.ErrSimInvalidParams, "initRate must be in (0, 1]")
		}
		if c.MaintRate <= 0 || c.MaintRate > c.InitRate {
			return errors.Wrap(exception.ErrSimInvalidParams, "maintRate must be in (0, initRate]")
		}
	default:
		return errors.Wrapf(exception.ErrSimInvalidParams, "kind %q", c.Kind)
	}
	for symbol, size := range c.ContractSizes {
		if size <= 0 {
			return errors.Wrapf(exception.ErrSimInvalidParams, "contract size of %s must be > 0", symbol)
		}
	}
	return nil
}

func (c Config) contractSize(symbol string) float64 {
	if size, ok := c.ContractSizes[symbol]; ok {
		return size
	}
	return 1
}
