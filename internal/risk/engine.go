package risk

import (
	"math"
	"time"
)

// Config defines simple pre-trade limits. Zero disables a limit.
type Config struct {
	KillSwitch       bool          `json:"killSwitch"`
	MaxOrderQty      int64         `json:"maxOrderQty"`
	MaxOrderNotional float64       `json:"maxOrderNotional"`
	MaxPosition      int64         `json:"maxPosition"`
	OrderRateLimit   int           `json:"orderRateLimit"`
	OrderRateWindow  time.Duration `json:"orderRateWindow"`
}

type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonKillSwitch
	ReasonRateLimit
	ReasonMaxQty
	ReasonMaxNotional
	ReasonPositionLimit
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonKillSwitch:
		return "kill switch"
	case ReasonRateLimit:
		return "rate limit"
	case ReasonMaxQty:
		return "max order qty"
	case ReasonMaxNotional:
		return "max order notional"
	case ReasonPositionLimit:
		return "position limit"
	default:
		return "unknown"
	}
}

// Intent is an order about to be filled. Qty is signed: positive buys,
// negative sells.
type Intent struct {
	Symbol   string
	Qty      int64
	Notional float64
	Position int64
	Now      time.Time
}

type Decision struct {
	Allow  bool
	Reason Reason
}

// Engine evaluates risk decisions. Rate limiting follows Intent.Now, so a
// replay is limited in replay time.
type Engine struct {
	cfg             Config
	rateWindowStart time.Time
	rateCount       int
}

// NewEngine creates a risk engine with static limits.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Reset forgets the rate window.
func (e *Engine) Reset() {
	e.rateWindowStart = time.Time{}
	e.rateCount = 0
}

// Evaluate applies the limits to an intent.
func (e *Engine) Evaluate(intent Intent) Decision {
	if e.cfg.KillSwitch {
		return deny(ReasonKillSwitch)
	}

	if e.cfg.OrderRateLimit > 0 && e.cfg.OrderRateWindow > 0 {
		if e.rateWindowStart.IsZero() || intent.Now.Sub(e.rateWindowStart) >= e.cfg.OrderRateWindow {
			e.rateWindowStart = intent.Now
			e.rateCount = 0
		}
		e.rateCount++
		if e.rateCount > e.cfg.OrderRateLimit {
			return deny(ReasonRateLimit)
		}
	}

	if e.cfg.MaxOrderQty > 0 && absInt64(intent.Qty) > e.cfg.MaxOrderQty {
		return deny(ReasonMaxQty)
	}

	if e.cfg.MaxOrderNotional > 0 && math.Abs(intent.Notional) > e.cfg.MaxOrderNotional {
		return deny(ReasonMaxNotional)
	}

	if e.cfg.MaxPosition > 0 && absInt64(intent.Position+intent.Qty) > e.cfg.MaxPosition {
		return deny(ReasonPositionLimit)
	}

	return Decision{Allow: true}
}

func deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
