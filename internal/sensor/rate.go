package sensor

import (
	"time"

	"locus.klederson.com/internal/config"
)

// RateMeter tracks the incoming sample rate with an EMA over the
// instantaneous rate between consecutive samples.
type RateMeter struct {
	last  time.Time
	rate  float64 // samples per second
	count int
}

// NewRateMeter creates an empty meter.
func NewRateMeter() *RateMeter {
	return &RateMeter{}
}

// Observe records a sample arriving at t.
func (m *RateMeter) Observe(t time.Time) {
	m.count++
	if m.last.IsZero() {
		m.last = t
		return
	}

	dt := t.Sub(m.last).Seconds()
	m.last = t
	if dt <= 0 {
		return
	}

	inst := 1 / dt
	if m.rate == 0 {
		m.rate = inst
		return
	}
	m.rate = m.rate*(1-config.SmoothingAlpha) + inst*config.SmoothingAlpha
}

// Evict zeroes the rate when nothing has arrived within timeout of now.
// Returns true if the meter went stale.
func (m *RateMeter) Evict(now time.Time, timeout time.Duration) bool {
	if m.last.IsZero() || now.Sub(m.last) < timeout {
		return false
	}
	m.rate = 0
	m.last = time.Time{}
	return true
}

// Rate returns the smoothed samples per second.
func (m *RateMeter) Rate() float64 { return m.rate }

// Count returns the total number of observed samples.
func (m *RateMeter) Count() int { return m.count }

// LastSeen returns when the newest sample arrived (zero if stale).
func (m *RateMeter) LastSeen() time.Time { return m.last }
