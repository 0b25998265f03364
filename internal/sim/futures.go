package sim

import (
	"rollpanel/internal/errors"
	"rollpanel/pkg/exception"

	"github.com/yanun0323/logs"
)

// FuturesSimulation trades on margin. Opening a position needs InitRate of
// the notional in free margin; MaintRate of it moves from free to bound. The
// bound margin is re-marked at every bar.
type FuturesSimulation struct {
	account
	bound float64
	free  float64
}

func NewFuturesSimulation(cfg Config, strategy Strategy) (*FuturesSimulation, error) {
	cfg = cfg.withDefaults()
	cfg.Kind = KindFutures
	if strategy == nil {
		return nil, exception.ErrSimNilStrategy
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid sim config")
	}

	s := &FuturesSimulation{account: newAccount(cfg, strategy)}
	s.Reset()
	return s, nil
}

func (s *FuturesSimulation) Reset() {
	s.reset()
	s.bound = 0
	s.free = s.cfg.StartingCash
}

func (s *FuturesSimulation) Margin() (bound, free float64) {
	return s.bound, s.free
}

func (s *FuturesSimulation) Run(bars []Bar) []PortfolioValue {
	return run(s, bars)
}

func (s *FuturesSimulation) Step(bar Bar) {
	s.observe(bar)
	s.bound = s.cfg.MaintRate * s.marked()
	s.values = append(s.values, PortfolioValue{Ts: bar.Ts, Value: s.bound + s.free})

	for _, o := range s.strategy(bar, s.params(s.free, s.free/s.cfg.InitRate)) {
		price, ok := s.price(bar, o)
		if !ok {
			continue
		}
		notional := price * float64(o.Amount) * s.cfg.contractSize(o.Symbol)
		if !s.allow(bar, o, notional) {
			continue
		}

		switch o.Action {
		case ActionBuy:
			required := s.cfg.InitRate * notional
			if required > s.free {
				logs.Infof("sim: reject buy %s x%d, margin %.2f exceeds free %.2f", o.Symbol, o.Amount, required, s.free)
				continue
			}
			transfer := s.cfg.MaintRate * notional
			s.free -= transfer
			s.bound += transfer
			s.positions[o.Symbol] += o.Amount
		case ActionSell:
			amount := min(o.Amount, s.positions[o.Symbol])
			if amount <= 0 {
				continue
			}
			release := s.cfg.MaintRate * price * float64(amount) * s.cfg.contractSize(o.Symbol)
			s.free += release
			s.bound -= release
			s.positions[o.Symbol] -= amount
		}
	}
}
