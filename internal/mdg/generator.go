package mdg

import (
	"time"

	"rollpanel/internal/errors"
	"rollpanel/internal/model"
	"rollpanel/pkg/exception"
)

const (
	expirationLen = 3
	listedMonths  = 3
)

// Contract is one futures contract. The generator trades it during the
// three months up to the end of its expiration month.
type Contract struct {
	Symbol     model.Symbol
	Underlying string
	Expiration string
	listed     time.Time
	expires    time.Time
}

func (c Contract) active(now time.Time) bool {
	return !now.Before(c.listed) && now.Before(c.expires)
}

// ParseContract splits a contract id such as "ESH14" into underlying and
// month code.
func ParseContract(sid string) (Contract, error) {
	if len(sid) <= expirationLen {
		return Contract{}, errors.Wrapf(exception.ErrSourceInvalidRecord, "contract %q", sid)
	}
	underlying, expiration := sid[:len(sid)-expirationLen], sid[len(sid)-expirationLen:]
	month, err := model.DateFromMonthCode(expiration)
	if err != nil {
		return Contract{}, errors.Wrapf(err, "contract %q", sid)
	}
	return Contract{
		Symbol:     model.NewContract(underlying, expiration),
		Underlying: underlying,
		Expiration: expiration,
		listed:     month.AddDate(0, 1-listedMonths, 0),
		expires:    month.AddDate(0, 1, 0),
	}, nil
}

// Generator creates synthetic trade records, cycling through the contracts
// that are listed and not expired.
type Generator struct {
	contracts []Contract
	basePrice float64
	baseSize  int64
	tickSize  float64
	index     int
	seq       int
}

// NewGenerator creates a generator for the given contract ids.
func NewGenerator(sids []string, basePrice float64, baseSize int64, tickSize float64) (*Generator, error) {
	if len(sids) == 0 {
		return nil, errors.Wrap(exception.ErrSourceInvalidRecord, "generator has no contracts")
	}
	contracts := make([]Contract, 0, len(sids))
	for _, sid := range sids {
		c, err := ParseContract(sid)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	if basePrice <= 0 {
		basePrice = 100
	}
	if baseSize <= 0 {
		baseSize = 1
	}
	if tickSize <= 0 {
		tickSize = 0.25
	}
	return &Generator{
		contracts: contracts,
		basePrice: basePrice,
		baseSize:  baseSize,
		tickSize:  tickSize,
	}, nil
}

// Next creates the next trade at now. It reports false when no contract is
// active at now.
func (g *Generator) Next(now time.Time) (model.TradeRecord, bool) {
	for k := range g.contracts {
		i := (g.index + k) % len(g.contracts)
		c := g.contracts[i]
		if !c.active(now) {
			continue
		}
		g.index = (i + 1) % len(g.contracts)

		price := g.basePrice + g.tickSize*float64(g.seq%8)
		size := g.baseSize
		g.seq++
		return model.TradeRecord{
			Timestamp:  now,
			Underlying: c.Underlying,
			Expiration: c.Expiration,
			Price:      &price,
			Size:       &size,
		}, true
	}
	return model.TradeRecord{}, false
}

// Records creates a trade at each of n times spaced step apart from start,
// skipping times without an active contract.
func (g *Generator) Records(start time.Time, step time.Duration, n int) []model.TradeRecord {
	records := make([]model.TradeRecord, 0, n)
	for k := range n {
		if r, ok := g.Next(start.Add(time.Duration(k) * step)); ok {
			records = append(records, r)
		}
	}
	return records
}
