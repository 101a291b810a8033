package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicGateFiresOncePerPeriod(t *testing.T) {
	start := time.Unix(0, 0)
	gate := NewPeriodicGate(100*time.Millisecond, start)

	// Sub-period polls never fire, no matter how many.
	for ms := 10; ms < 100; ms += 10 {
		assert.False(t, gate.Ready(start.Add(time.Duration(ms)*time.Millisecond)), "at %dms", ms)
	}

	// First poll at or past the period fires.
	assert.True(t, gate.Ready(start.Add(100*time.Millisecond)))

	// Immediately after a fire, the gate is closed again.
	assert.False(t, gate.Ready(start.Add(150*time.Millisecond)))
	assert.True(t, gate.Ready(start.Add(200*time.Millisecond)))
}

func TestPeriodicGateDoesNotCatchUp(t *testing.T) {
	start := time.Unix(0, 0)
	gate := NewPeriodicGate(100*time.Millisecond, start)

	// Five periods pass unpolled; only one fire results, anchored to now.
	late := start.Add(500 * time.Millisecond)
	assert.True(t, gate.Ready(late))
	assert.False(t, gate.Ready(late.Add(50*time.Millisecond)))
	assert.True(t, gate.Ready(late.Add(100*time.Millisecond)))
}

func TestPeriodicGateIndependentInstances(t *testing.T) {
	start := time.Unix(0, 0)
	controlGate := NewPeriodicGate(time.Millisecond, start)
	debugGate := NewPeriodicGate(3*time.Second, start)

	now := start.Add(2 * time.Millisecond)
	assert.True(t, controlGate.Ready(now))
	assert.False(t, debugGate.Ready(now))
}
