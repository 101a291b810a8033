package control

import "fmt"

// PIDSettings holds the tunable parameters for one joint's force loop.
// Built once at load time and never mutated afterwards.
type PIDSettings struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`

	// DT is the configured control interval in seconds. The controller
	// always integrates and differentiates against this constant, not
	// against measured elapsed time between calls.
	DT float64 `json:"dt_s"`

	// Output force clamp in newtons.
	Min float64 `json:"min_force_n"`
	Max float64 `json:"max_force_n"`
}

// Validate rejects settings that would make Compute unsafe to call.
func (s PIDSettings) Validate() error {
	if s.DT <= 0 {
		return fmt.Errorf("pid settings: dt = %v, dt must be > 0", s.DT)
	}
	if s.Min > s.Max {
		return fmt.Errorf("pid settings: force limits min %v > max %v", s.Min, s.Max)
	}
	return nil
}

// PIDController implements a discrete PID loop for a single joint.
// It is not safe for concurrent use; each joint owns exactly one.
type PIDController struct {
	cfg PIDSettings

	// State
	integral  float64
	prevError float64
}

// NewPIDController validates the settings and returns a controller with
// zeroed state. Invalid settings are a load-time error, never a runtime one.
func NewPIDController(cfg PIDSettings) (*PIDController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PIDController{cfg: cfg}, nil
}

// Settings returns the immutable parameters this controller was built with.
func (pid *PIDController) Settings() PIDSettings {
	return pid.cfg
}

// Reset clears the accumulated state.
func (pid *PIDController) Reset() {
	pid.integral = 0.0
	pid.prevError = 0.0
}

// Compute advances the loop by one control interval and returns the
// clamped force command for the given setpoint and measurement.
//
// The integral accumulates unconditionally; the output clamp is the only
// anti-windup measure.
func (pid *PIDController) Compute(setpoint, measurement float64) float64 {
	error := setpoint - measurement

	pid.integral += error * pid.cfg.DT

	derivative := (error - pid.prevError) / pid.cfg.DT

	force := pid.cfg.Kp*error + pid.cfg.Ki*pid.integral + pid.cfg.Kd*derivative

	if force > pid.cfg.Max {
		force = pid.cfg.Max
	} else if force < pid.cfg.Min {
		force = pid.cfg.Min
	}

	pid.prevError = error
	return force
}

// Diagnostics returns a snapshot of the loop's internal state for logging.
func (pid *PIDController) Diagnostics() PIDDiagnostics {
	return PIDDiagnostics{
		Error:    pid.prevError,
		Integral: pid.integral,
		P:        pid.cfg.Kp * pid.prevError,
		I:        pid.cfg.Ki * pid.integral,
	}
}

// PIDDiagnostics contains PID internal state for monitoring.
type PIDDiagnostics struct {
	Error    float64
	Integral float64
	P        float64
	I        float64
}
