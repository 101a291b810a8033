package control

import "time"

// PeriodicGate rate-limits work on a polled loop. Ready reports whether a
// full period has elapsed since the last fire and, if so, advances the
// fire time to now.
//
// There is no catch-up: a gate that is not polled for several periods
// fires once on the next poll, anchored to the current time, not to an
// accumulated backlog.
type PeriodicGate struct {
	period   time.Duration
	lastFire time.Time
}

// NewPeriodicGate returns a gate whose first fire becomes eligible one
// full period after now.
func NewPeriodicGate(period time.Duration, now time.Time) *PeriodicGate {
	return &PeriodicGate{period: period, lastFire: now}
}

// Period returns the configured gate period.
func (g *PeriodicGate) Period() time.Duration {
	return g.period
}

// Ready fires the gate if the period has elapsed.
func (g *PeriodicGate) Ready(now time.Time) bool {
	if now.Sub(g.lastFire) < g.period {
		return false
	}
	g.lastFire = now
	return true
}
