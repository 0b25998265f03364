package conn

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rollpanel/internal/errors"
	"rollpanel/internal/model"
	"rollpanel/pkg/exception"
)

const (
	defaultPostgresHost    = "localhost"
	defaultPostgresPort    = 5432
	defaultPostgresSSLMode = "disable"
	defaultTradeTable      = "trades"
)

// Option defines connection options for PostgreSQL.
type Option struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	SSLMode    string
	Params     map[string]string
	ConnString string
	Config     *gorm.Config

	// TradeTable is the table TradeRecords reads from.
	TradeTable string
}

// Client wraps a PostgreSQL connection pool and serves trade records to the
// bar generators. It is created once and passed to whatever needs it.
type Client struct {
	opt Option
	db  *gorm.DB
}

// New creates a PostgreSQL client from the provided options.
func New(option Option) (*Client, error) {
	connString, err := option.dsn()
	if err != nil {
		return nil, err
	}

	config := option.Config
	if config == nil {
		config = &gorm.Config{}
	}

	db, err := gorm.Open(postgres.Open(connString), config)
	if err != nil {
		return nil, err
	}

	return &Client{opt: option, db: db}, nil
}

// NewWithDB wraps an already opened gorm handle.
func NewWithDB(option Option, db *gorm.DB) *Client {
	return &Client{opt: option, db: db}
}

// DB returns the underlying gorm.DB instance.
func (c *Client) DB() *gorm.DB {
	if c == nil {
		return nil
	}
	return c.db
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (opt Option) dsn() (string, error) {
	if opt.ConnString != "" {
		return opt.ConnString, nil
	}

	host := opt.Host
	if host == "" {
		host = defaultPostgresHost
	}

	port := opt.Port
	if port == 0 {
		port = defaultPostgresPort
	}

	sslMode := opt.SSLMode
	if sslMode == "" {
		sslMode = defaultPostgresSSLMode
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", host, port),
	}

	if opt.User != "" {
		if opt.Password != "" {
			u.User = url.UserPassword(opt.User, opt.Password)
		} else {
			u.User = url.User(opt.User)
		}
	}

	if opt.Database != "" {
		u.Path = "/" + opt.Database
	}

	query := url.Values{}
	query.Set("sslmode", sslMode)
	for key, value := range opt.Params {
		if key == "" {
			continue
		}
		query.Set(key, value)
	}
	if len(query) != 0 {
		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}

// tradeRow is one row of the trade table.
type tradeRow struct {
	Timestamp    time.Time `gorm:"column:timestamp"`
	Underlying   string    `gorm:"column:underlying"`
	Expiration   string    `gorm:"column:expiration"`
	Price        *float64  `gorm:"column:price"`
	Size         *int64    `gorm:"column:size"`
	OpenInterest *int64    `gorm:"column:open_interest"`
}

func (r tradeRow) record() model.TradeRecord {
	return model.TradeRecord{
		Timestamp:    r.Timestamp,
		Underlying:   r.Underlying,
		Expiration:   r.Expiration,
		Price:        r.Price,
		Size:         r.Size,
		OpenInterest: r.OpenInterest,
	}
}

func (c *Client) tradeTable() string {
	if c.opt.TradeTable == "" {
		return defaultTradeTable
	}
	return c.opt.TradeTable
}

// TradeRecords returns the trades of underlying in [start, end), ordered by
// timestamp then expiration.
func (c *Client) TradeRecords(ctx context.Context, underlying string, start, end time.Time) ([]model.TradeRecord, error) {
	if c == nil || c.db == nil {
		return nil, exception.ErrSourceNilClient
	}
	if !end.After(start) {
		return nil, errors.Wrapf(exception.ErrSourceInvalidInterval, "start %s, end %s", start, end)
	}

	var rows []tradeRow
	err := c.db.WithContext(ctx).
		Table(c.tradeTable()).
		Where("underlying = ? AND timestamp >= ? AND timestamp < ?", underlying, start, end).
		Order("timestamp, expiration").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "query trades of %s", underlying)
	}

	records := make([]model.TradeRecord, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}
