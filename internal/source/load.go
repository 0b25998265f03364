package source

import (
	"io"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/decimal"

	"rollpanel/internal/errors"
	"rollpanel/internal/model"
	"rollpanel/pkg/exception"
)

type recordPayload struct {
	Timestamp    time.Time        `json:"timestamp"`
	Underlying   string           `json:"underlying"`
	Expiration   string           `json:"expiration"`
	Price        *decimal.Decimal `json:"price"`
	Size         *int64           `json:"size"`
	OpenInterest *int64           `json:"open_interest"`
}

// LoadRecords decodes a JSON array of trade records. Prices are exchange
// decimals.
func LoadRecords(r io.Reader) ([]model.TradeRecord, error) {
	var payloads []recordPayload
	if err := sonic.ConfigFastest.NewDecoder(r).Decode(&payloads); err != nil {
		return nil, errors.Wrap(err, "decode trade records")
	}

	records := make([]model.TradeRecord, 0, len(payloads))
	for i, p := range payloads {
		if p.Underlying == "" || p.Timestamp.IsZero() {
			return nil, errors.Wrapf(exception.ErrSourceInvalidRecord, "record %d", i)
		}

		record := model.TradeRecord{
			Timestamp:    p.Timestamp.UTC(),
			Underlying:   p.Underlying,
			Expiration:   p.Expiration,
			Size:         p.Size,
			OpenInterest: p.OpenInterest,
		}
		if p.Price != nil {
			price, err := strconv.ParseFloat(p.Price.String(), 64)
			if err != nil {
				return nil, errors.Wrapf(exception.ErrSourceInvalidRecord, "record %d price %s", i, p.Price.String())
			}
			record.Price = &price
		}
		records = append(records, record)
	}

	return records, nil
}
