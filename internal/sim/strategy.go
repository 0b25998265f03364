package sim

import (
	"math"

	"rollpanel/internal/errors"
	"rollpanel/pkg/exception"
)

type Action uint8

const (
	ActionBuy Action = iota + 1
	ActionSell
)

func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "buy"
	case ActionSell:
		return "sell"
	default:
		return "unknown"
	}
}

type Order struct {
	Action Action
	Symbol string
	Amount int64
}

// Params is the account state handed to a strategy with every bar.
type Params struct {
	Cash        float64
	BuyingPower float64
	Positions   map[string]int64

	sizes map[string]float64
}

// ContractSize returns the multiplier of symbol.
func (p Params) ContractSize(symbol string) float64 {
	if size, ok := p.sizes[symbol]; ok {
		return size
	}
	return 1
}

// Strategy decides the orders to place on a bar.
type Strategy func(bar Bar, params Params) []Order

// BuyEveryBar buys amount of symbol on every bar.
func BuyEveryBar(symbol string, amount int64) Strategy {
	return func(Bar, Params) []Order {
		return []Order{{Action: ActionBuy, Symbol: symbol, Amount: amount}}
	}
}

// BuyAllAtOnce spends all buying power on symbol at the first bar it trades,
// then does nothing.
func BuyAllAtOnce(symbol string) Strategy {
	done := false
	return func(bar Bar, params Params) []Order {
		price, ok := bar.Prices[symbol]
		if done || !ok || price <= 0 {
			return nil
		}
		done = true

		amount := int64(math.Floor(params.BuyingPower / (price * params.ContractSize(symbol))))
		if amount <= 0 {
			return nil
		}
		return []Order{{Action: ActionBuy, Symbol: symbol, Amount: amount}}
	}
}

// StrategyByName builds one of the named strategies.
func StrategyByName(name, symbol string, amount int64) (Strategy, error) {
	if symbol == "" {
		return nil, errors.Wrap(exception.ErrSimInvalidParams, "strategy symbol is empty")
	}
	switch name {
	case "buy_every_bar":
		if amount <= 0 {
			amount = 1
		}
		return BuyEveryBar(symbol, amount), nil
	case "buy_all_at_once":
		return BuyAllAtOnce(symbol), nil
	default:
		return nil, errors.Wrapf(exception.ErrSimInvalidParams, "strategy %q", name)
	}
}
