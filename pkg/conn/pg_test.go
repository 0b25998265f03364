package conn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollpanel/pkg/exception"
)

func TestOptionDSN(t *testing.T) {
	dsn, err := Option{}.dsn()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432?sslmode=disable", dsn)

	dsn, err = Option{
		Host:     "db",
		Port:     6543,
		User:     "quant",
		Password: "secret",
		Database: "ticks",
		Params:   map[string]string{"application_name": "replay", "": "skipped"},
	}.dsn()
	require.NoError(t, err)
	assert.Equal(t, "postgres://quant:secret@db:6543/ticks?application_name=replay&sslmode=disable", dsn)

	dsn, err = Option{ConnString: "host=db user=quant"}.dsn()
	require.NoError(t, err)
	assert.Equal(t, "host=db user=quant", dsn)
}

func TestTradeRecordsGuards(t *testing.T) {
	start := time.Date(2014, 1, 10, 0, 0, 0, 0, time.UTC)

	var c *Client
	_, err := c.TradeRecords(context.Background(), "ES", start, start.Add(time.Hour))
	require.ErrorIs(t, err, exception.ErrSourceNilClient)
	assert.Nil(t, c.DB())
	assert.NoError(t, c.Close())

	c = NewWithDB(Option{}, nil)
	_, err = c.TradeRecords(context.Background(), "ES", start, start.Add(time.Hour))
	require.ErrorIs(t, err, exception.ErrSourceNilClient)

	assert.Equal(t, "trades", c.tradeTable())
	assert.Equal(t, "es_trades", NewWithDB(Option{TradeTable: "es_trades"}, nil).tradeTable())
}

func TestTradeRowRecord(t *testing.T) {
	price := 1830.25
	size := int64(3)
	row := tradeRow{
		Timestamp:  time.Date(2014, 1, 10, 14, 30, 0, 0, time.UTC),
		Underlying: "ES",
		Expiration: "H14",
		Price:      &price,
		Size:       &size,
	}

	r := row.record()
	assert.Equal(t, "ESH14", r.Sid())
	assert.Equal(t, &price, r.Price)
	assert.Equal(t, &size, r.Size)
	assert.Nil(t, r.OpenInterest)
}
