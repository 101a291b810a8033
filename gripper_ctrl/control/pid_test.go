package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDSettingsValidate(t *testing.T) {
	valid := PIDSettings{Kp: 2.5, DT: 0.001, Min: -10, Max: 10}
	assert.NoError(t, valid.Validate())

	zeroDT := valid
	zeroDT.DT = 0
	assert.Error(t, zeroDT.Validate())

	negDT := valid
	negDT.DT = -0.5
	assert.Error(t, negDT.Validate())

	flipped := valid
	flipped.Min, flipped.Max = 10, -10
	assert.Error(t, flipped.Validate())
}

func TestNewPIDControllerRejectsBadSettings(t *testing.T) {
	_, err := NewPIDController(PIDSettings{Kp: 1, DT: 0, Min: -1, Max: 1})
	assert.Error(t, err)

	_, err = NewPIDController(PIDSettings{Kp: 1, DT: 1, Min: 5, Max: -5})
	assert.Error(t, err)
}

func TestComputeOutputStaysWithinClamp(t *testing.T) {
	pid, err := NewPIDController(PIDSettings{Kp: 50, Ki: 10, Kd: 5, DT: 0.01, Min: -10, Max: 10})
	require.NoError(t, err)

	inputs := []struct{ setpoint, measurement float64 }{
		{0, 0},
		{1, 0},
		{-1, 0},
		{1000, -1000},
		{-1e6, 1e6},
		{math.Pi, -math.Pi},
		{0.001, 0},
	}
	for i := 0; i < 50; i++ {
		for _, in := range inputs {
			force := pid.Compute(in.setpoint, in.measurement)
			assert.GreaterOrEqual(t, force, -10.0)
			assert.LessOrEqual(t, force, 10.0)
		}
	}
}

func TestComputeZeroErrorGivesZeroForce(t *testing.T) {
	pid, err := NewPIDController(PIDSettings{Kp: 2.5, Ki: 1, Kd: 1, DT: 0.001, Min: -10, Max: 10})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.Zero(t, pid.Compute(1.5, 1.5))
	}
}

func TestComputeIntegralAccumulatesLinearly(t *testing.T) {
	pid, err := NewPIDController(PIDSettings{
		Ki:  1,
		DT:  1,
		Min: math.Inf(-1),
		Max: math.Inf(1),
	})
	require.NoError(t, err)

	const e = 0.25
	for n := 1; n <= 20; n++ {
		force := pid.Compute(e, 0)
		assert.InDelta(t, e*float64(n), force, 1e-12, "call %d", n)
	}
}

func TestComputeProportionalRoundTrip(t *testing.T) {
	pid, err := NewPIDController(PIDSettings{Kp: 1, DT: 1, Min: -100, Max: 100})
	require.NoError(t, err)

	// Desired 1.0 rad, current 0.0 rad: pure P with unit gain.
	assert.InDelta(t, 1.0, pid.Compute(1.0, 0.0), 1e-12)
}

func TestComputeDerivativeUsesPreviousError(t *testing.T) {
	pid, err := NewPIDController(PIDSettings{Kd: 1, DT: 0.5, Min: -100, Max: 100})
	require.NoError(t, err)

	// First call: prevError starts at 0, so d = (1 - 0) / 0.5.
	assert.InDelta(t, 2.0, pid.Compute(1.0, 0.0), 1e-12)
	// Same error again: derivative vanishes.
	assert.InDelta(t, 0.0, pid.Compute(1.0, 0.0), 1e-12)
}

func TestResetClearsState(t *testing.T) {
	pid, err := NewPIDController(PIDSettings{Ki: 1, Kd: 1, DT: 1, Min: -100, Max: 100})
	require.NoError(t, err)

	pid.Compute(3, 0)
	pid.Compute(3, 0)
	pid.Reset()

	diag := pid.Diagnostics()
	assert.Zero(t, diag.Integral)
	assert.Zero(t, diag.Error)
}

func TestDiagnosticsReflectLastCompute(t *testing.T) {
	pid, err := NewPIDController(PIDSettings{Kp: 2, Ki: 0.5, DT: 1, Min: -100, Max: 100})
	require.NoError(t, err)

	pid.Compute(4, 0)
	diag := pid.Diagnostics()
	assert.InDelta(t, 4.0, diag.Error, 1e-12)
	assert.InDelta(t, 4.0, diag.Integral, 1e-12)
	assert.InDelta(t, 8.0, diag.P, 1e-12)
	assert.InDelta(t, 2.0, diag.I, 1e-12)
}
