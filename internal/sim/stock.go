package sim

import (
	"rollpanel/internal/errors"
	"rollpanel/pkg/exception"

	"github.com/yanun0323/logs"
)

// StockSimulation trades with cash only: a buy is filled when the cash
// covers price * amount.
type StockSimulation struct {
	account
	cash float64
}

func NewStockSimulation(cfg Config, strategy Strategy) (*StockSimulation, error) {
	cfg = cfg.withDefaults()
	if strategy == nil {
		return nil, exception.ErrSimNilStrategy
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid sim config")
	}

	s := &StockSimulation{account: newAccount(cfg, strategy)}
	s.Reset()
	return s, nil
}

func (s *StockSimulation) Reset() {
	s.reset()
	s.cash = s.cfg.StartingCash
}

func (s *StockSimulation) Cash() float64 {
	return s.cash
}

func (s *StockSimulation) Value() float64 {
	return s.cash + s.marked()
}

func (s *StockSimulation) Run(bars []Bar) []PortfolioValue {
	return run(s, bars)
}

func (s *StockSimulation) Step(bar Bar) {
	s.observe(bar)
	s.values = append(s.values, PortfolioValue{Ts: bar.Ts, Value: s.Value()})

	for _, o := range s.strategy(bar, s.params(s.cash, s.cash)) {
		price, ok := s.price(bar, o)
		if !ok {
			continue
		}
		size := s.cfg.contractSize(o.Symbol)
		if !s.allow(bar, o, price*float64(o.Amount)*size) {
			continue
		}

		switch o.Action {
		case ActionBuy:
			cost := price * float64(o.Amount) * size
			if cost > s.cash {
				logs.Infof("sim: reject buy %s x%d, cost %.2f exceeds cash %.2f", o.Symbol, o.Amount, cost, s.cash)
				continue
			}
			s.cash -= cost
			s.positions[o.Symbol] += o.Amount
		case ActionSell:
			amount := min(o.Amount, s.positions[o.Symbol])
			if amount <= 0 {
				continue
			}
			s.cash += price * float64(amount) * size
			s.positions[o.Symbol] -= amount
		}
	}
}
