package control

// GripperJointNames identifies the three joints for logging and
// traceability. The names have no effect on the control math.
type GripperJointNames struct {
	Wrist       string
	LeftFinger  string
	RightFinger string
}

// GripperState is a snapshot of the three joint angles in radians.
// Two instances exist per tick: the measured state and the desired state.
type GripperState struct {
	WristAngle       float64
	LeftFingerAngle  float64
	RightFingerAngle float64
}

// GripperForces is the per-joint force command triple in newtons,
// produced fresh on every control tick.
type GripperForces struct {
	WristForce       float64
	LeftFingerForce  float64
	RightFingerForce float64
}

// GripperManager owns the three independent PID loops for the gripper.
// The same finger settings parameterize both finger controllers since the
// mechanism is symmetric; each controller still keeps its own state.
type GripperManager struct {
	names GripperJointNames

	wrist       *PIDController
	leftFinger  *PIDController
	rightFinger *PIDController
}

// NewGripperManager builds the three joint controllers. It fails if either
// settings object is invalid; a partially configured gripper is never run.
func NewGripperManager(names GripperJointNames, wristPID, fingerPID PIDSettings) (*GripperManager, error) {
	wrist, err := NewPIDController(wristPID)
	if err != nil {
		return nil, err
	}
	left, err := NewPIDController(fingerPID)
	if err != nil {
		return nil, err
	}
	right, err := NewPIDController(fingerPID)
	if err != nil {
		return nil, err
	}
	return &GripperManager{
		names:       names,
		wrist:       wrist,
		leftFinger:  left,
		rightFinger: right,
	}, nil
}

// JointNames returns the names the manager was constructed with.
func (m *GripperManager) JointNames() GripperJointNames {
	return m.names
}

// GetForces runs one compute step on each joint loop and returns the
// force triple. The only side effect is each controller's own state update.
func (m *GripperManager) GetForces(desired, current GripperState) GripperForces {
	return GripperForces{
		WristForce:       m.wrist.Compute(desired.WristAngle, current.WristAngle),
		LeftFingerForce:  m.leftFinger.Compute(desired.LeftFingerAngle, current.LeftFingerAngle),
		RightFingerForce: m.rightFinger.Compute(desired.RightFingerAngle, current.RightFingerAngle),
	}
}

// Diagnostics returns the per-joint loop snapshots, keyed in wrist,
// left finger, right finger order.
func (m *GripperManager) Diagnostics() (wrist, left, right PIDDiagnostics) {
	return m.wrist.Diagnostics(), m.leftFinger.Diagnostics(), m.rightFinger.Diagnostics()
}

// DesiredState derives the three-joint target from the two externally
// commanded angles. The finger opening is split symmetrically: the right
// finger's joint convention is the negated mirror of the left's, so the
// total opening magnitude is always fingerOpening.
//
// A negative opening is not rejected here; it just drives the fingers
// toward a mechanically limited pose, bounded by the output force clamp.
func DesiredState(wristAngle, fingerOpening float64) GripperState {
	return GripperState{
		WristAngle:       wristAngle,
		LeftFingerAngle:  fingerOpening / 2.0,
		RightFingerAngle: -fingerOpening / 2.0,
	}
}
