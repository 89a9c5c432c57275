package controller

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func speedParams() PIDParams {
	return PIDParams{DT: 0.1, Kp: 1.5, XRef: 1.0, UMax: 2, UMin: -2, DUMax: 20, DUMin: -20}
}

func TestPIDProportional(t *testing.T) {
	pid := NewPID(speedParams(), nil)
	assert.InDelta(t, 0.75, pid.Solve(0.5), 1e-12)
	assert.InDelta(t, -0.75, pid.Solve(1.5), 1e-12)
	assert.InDelta(t, 0.0, pid.Solve(1.0), 1e-12)
}

func TestPIDMagnitudeClamp(t *testing.T) {
	pid := NewPID(speedParams(), nil)
	assert.Equal(t, 2.0, pid.Solve(-10))
	assert.Equal(t, -2.0, pid.Solve(10))
}

func TestPIDIntegralAndDerivative(t *testing.T) {
	params := PIDParams{DT: 0.5, Ki: 1, Kd: 1, UMax: 100, UMin: -100}
	pid := NewPID(params, nil)

	// integral 0.5, no derivative on the first call
	assert.InDelta(t, -0.5, pid.Solve(1), 1e-12)
	// integral 1.5, derivative (2-1)/0.5
	assert.InDelta(t, -3.5, pid.Solve(2), 1e-12)

	pid.Reset()
	assert.InDelta(t, -0.5, pid.Solve(1), 1e-12)
}

func TestPIDRateLimit(t *testing.T) {
	params := speedParams()
	params.EnforceRateLimits = true
	params.DUMax = 1
	params.DUMin = -1
	pid := NewPID(params, nil)

	first := pid.Solve(1.0)
	assert.InDelta(t, 0.0, first, 1e-12)
	// unconstrained output would be 2, limited to 0.1 per step
	assert.InDelta(t, 0.1, pid.Solve(-10), 1e-12)
	assert.InDelta(t, 0.2, pid.Solve(-10), 1e-12)
	assert.InDelta(t, 0.1, pid.Solve(10), 1e-12)
}

func TestPIDRateLimitDisabled(t *testing.T) {
	pid := NewPID(speedParams(), nil)
	pid.Solve(1.0)
	assert.Equal(t, 2.0, pid.Solve(-10))
}

func TestPIDNoiseStaysInRange(t *testing.T) {
	params := speedParams()
	params.Noise = true
	params.NoiseMin = -0.9
	params.NoiseMax = 0.9
	pid := NewPID(params, rand.NewPCG(3, 5))

	for range 100 {
		u := pid.Solve(0.5)
		assert.GreaterOrEqual(t, u, 0.75-0.9)
		assert.LessOrEqual(t, u, 0.75+0.9)
	}
}
