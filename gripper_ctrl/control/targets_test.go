package control

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatestTargetsZeroValue(t *testing.T) {
	var targets LatestTargets
	assert.Zero(t, targets.WristAngle())
	assert.Zero(t, targets.FingerOpening())
}

func TestLatestTargetsLastWriterWins(t *testing.T) {
	var targets LatestTargets

	targets.SetWristAngle(0.1)
	targets.SetWristAngle(0.9)
	targets.SetFingerOpening(1.2)

	assert.Equal(t, 0.9, targets.WristAngle())
	assert.Equal(t, 1.2, targets.FingerOpening())

	desired := targets.Desired()
	assert.Equal(t, 0.9, desired.WristAngle)
	assert.Equal(t, 0.6, desired.LeftFingerAngle)
	assert.Equal(t, -0.6, desired.RightFingerAngle)
}

func TestLatestTargetsConcurrentAccess(t *testing.T) {
	var targets LatestTargets
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			targets.SetWristAngle(float64(i))
			targets.SetFingerOpening(float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			// Reads must always observe some written value, never a torn one.
			w := targets.WristAngle()
			assert.GreaterOrEqual(t, w, 0.0)
			assert.Less(t, w, 1000.0)
		}
	}()
	wg.Wait()
}
