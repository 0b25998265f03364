package model

import (
	"strings"
	"time"
)

// Frame field names produced from bars.
const (
	FieldPrice        = "price"
	FieldVolume       = "volume"
	FieldOpenInterest = "open_interest"
)

// TradeRecord is one raw trade print of a futures contract. Nil pointers
// mark values the feed did not report.
type TradeRecord struct {
	Timestamp    time.Time
	Underlying   string
	Expiration   string
	Price        *float64
	Size         *int64
	OpenInterest *int64
}

// Sid identifies the traded contract, e.g. "ES" + "H14".
func (r TradeRecord) Sid() string {
	return strings.TrimSpace(r.Underlying + r.Expiration)
}

// Bar is one interval of a single contract.
type Bar struct {
	Dt           time.Time
	Sid          string
	Price        float64
	Volume       int64
	OpenInterest *int64
}
