package sim

import (
	"maps"
	"time"

	"github.com/yanun0323/logs"

	"rollpanel/internal/risk"
)

// PortfolioValue is the account value recorded at the start of a bar.
type PortfolioValue struct {
	Ts    time.Time
	Value float64
}

// Simulation replays bars through a strategy.
type Simulation interface {
	// Step values the account at bar, then places the strategy's orders.
	Step(bar Bar)
	// Run resets the account and steps through bars.
	Run(bars []Bar) []PortfolioValue
	Reset()
	PortfolioValues() []PortfolioValue
	Positions() map[string]int64
}

// New builds the simulation selected by cfg.Kind.
func New(cfg Config, strategy Strategy) (Simulation, error) {
	cfg = cfg.withDefaults()
	if cfg.Kind == KindFutures {
		return NewFuturesSimulation(cfg, strategy)
	}
	return NewStockSimulation(cfg, strategy)
}

// account holds what both simulations share: positions, last seen prices,
// pre-trade limits and the recorded values.
type account struct {
	cfg       Config
	strategy  Strategy
	risk      *risk.Engine
	positions map[string]int64
	last      map[string]float64
	values    []PortfolioValue
}

func newAccount(cfg Config, strategy Strategy) account {
	return account{cfg: cfg, strategy: strategy, risk: risk.NewEngine(cfg.Risk)}
}

func (a *account) reset() {
	a.risk.Reset()
	a.positions = map[string]int64{}
	a.last = map[string]float64{}
	a.values = nil
}

func (a *account) observe(bar Bar) {
	for symbol, price := range bar.Prices {
		a.last[symbol] = price
	}
}

// marked sums price * amount * contract size over open positions using the
// last seen price of each symbol.
func (a *account) marked() float64 {
	sum := 0.0
	for symbol, amount := range a.positions {
		price, ok := a.last[symbol]
		if !ok || amount == 0 {
			continue
		}
		sum += price * float64(amount) * a.cfg.contractSize(symbol)
	}
	return sum
}

func (a *account) params(cash, buyingPower float64) Params {
	return Params{
		Cash:        cash,
		BuyingPower: buyingPower,
		Positions:   maps.Clone(a.positions),
		sizes:       a.cfg.ContractSizes,
	}
}

func (a *account) price(bar Bar, o Order) (float64, bool) {
	price, ok := bar.Prices[o.Symbol]
	if !ok || price <= 0 {
		logs.Errorf("sim: skip %s %s x%d at %s, no price", o.Action, o.Symbol, o.Amount, bar.Ts.Format(time.RFC3339))
		return 0, false
	}
	if o.Amount <= 0 {
		return 0, false
	}
	return price, true
}

// allow runs the order through the pre-trade limits.
func (a *account) allow(bar Bar, o Order, notional float64) bool {
	qty := o.Amount
	if o.Action == ActionSell {
		qty = -qty
	}
	d := a.risk.Evaluate(risk.Intent{
		Symbol:   o.Symbol,
		Qty:      qty,
		Notional: notional,
		Position: a.positions[o.Symbol],
		Now:      bar.Ts,
	})
	if !d.Allow {
		logs.Infof("sim: risk denied %s %s x%d, reason: %s", o.Action, o.Symbol, o.Amount, d.Reason)
	}
	return d.Allow
}

func (a *account) PortfolioValues() []PortfolioValue {
	return append([]PortfolioValue(nil), a.values...)
}

func (a *account) Positions() map[string]int64 {
	return maps.Clone(a.positions)
}

func run(s Simulation, bars []Bar) []PortfolioValue {
	s.Reset()
	for _, bar := range bars {
		s.Step(bar)
	}
	return s.PortfolioValues()
}
