package control

import (
	"math"
	"sync/atomic"
)

// LatestTargets holds the two externally commanded angles: the desired
// wrist angle and the desired total finger opening, both in radians.
//
// The receive goroutine writes them as commands arrive and the control
// loop reads them once per control fire. Only the latest value is kept;
// last-writer-wins is the intended semantics, so a plain atomic load and
// store per scalar is the whole synchronization story.
type LatestTargets struct {
	wrist         atomic.Uint64
	fingerOpening atomic.Uint64
}

// SetWristAngle stores a newly commanded wrist angle.
func (t *LatestTargets) SetWristAngle(rad float64) {
	t.wrist.Store(math.Float64bits(rad))
}

// WristAngle returns the most recently commanded wrist angle.
func (t *LatestTargets) WristAngle() float64 {
	return math.Float64frombits(t.wrist.Load())
}

// SetFingerOpening stores a newly commanded total finger opening.
func (t *LatestTargets) SetFingerOpening(rad float64) {
	t.fingerOpening.Store(math.Float64bits(rad))
}

// FingerOpening returns the most recently commanded finger opening.
func (t *LatestTargets) FingerOpening() float64 {
	return math.Float64frombits(t.fingerOpening.Load())
}

// Desired derives the three-joint desired state from the latest targets.
func (t *LatestTargets) Desired() GripperState {
	return DesiredState(t.WristAngle(), t.FingerOpening())
}
