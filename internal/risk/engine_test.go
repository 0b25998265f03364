package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2014, 1, 10, 14, 30, 0, 0, time.UTC)

func TestEngineLimits(t *testing.T) {
	e := NewEngine(Config{MaxOrderQty: 5, MaxOrderNotional: 1000, MaxPosition: 8})

	assert.Equal(t, Decision{Allow: true}, e.Evaluate(Intent{Qty: 5, Notional: 500, Now: now}))
	assert.Equal(t, ReasonMaxQty, e.Evaluate(Intent{Qty: -6, Notional: 60, Now: now}).Reason)
	assert.Equal(t, ReasonMaxNotional, e.Evaluate(Intent{Qty: 2, Notional: 1000.5, Now: now}).Reason)
	assert.Equal(t, ReasonPositionLimit, e.Evaluate(Intent{Qty: 3, Notional: 30, Position: 6, Now: now}).Reason)
	assert.True(t, e.Evaluate(Intent{Qty: -3, Notional: 30, Position: 6, Now: now}).Allow)

	e = NewEngine(Config{KillSwitch: true})
	d := e.Evaluate(Intent{Qty: 1, Now: now})
	assert.False(t, d.Allow)
	assert.Equal(t, "kill switch", d.Reason.String())
}

func TestEngineRateLimitFollowsIntentTime(t *testing.T) {
	e := NewEngine(Config{OrderRateLimit: 2, OrderRateWindow: time.Hour})

	assert.True(t, e.Evaluate(Intent{Qty: 1, Now: now}).Allow)
	assert.True(t, e.Evaluate(Intent{Qty: 1, Now: now.Add(time.Minute)}).Allow)
	assert.Equal(t, ReasonRateLimit, e.Evaluate(Intent{Qty: 1, Now: now.Add(59 * time.Minute)}).Reason)
	assert.True(t, e.Evaluate(Intent{Qty: 1, Now: now.Add(time.Hour)}).Allow)

	e.Reset()
	assert.True(t, e.Evaluate(Intent{Qty: 1, Now: now}).Allow)
	assert.True(t, e.Evaluate(Intent{Qty: 1, Now: now}).Allow)
	assert.False(t, e.Evaluate(Intent{Qty: 1, Now: now}).Allow)
}
