// Package controller holds the feedback controllers that drive a vehicle
// around a track, and the bounded wrapper that exposes them to an episode
// runner.
package controller

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
	m "pfeifer.dev/barc/math"
)

type PIDParams struct {
	DT   float64 `json:"dt"`
	Kp   float64 `json:"kp"`
	Ki   float64 `json:"ki"`
	Kd   float64 `json:"kd"`
	XRef float64 `json:"x_ref"`

	UMax  float64 `json:"u_max"`
	UMin  float64 `json:"u_min"`
	DUMax float64 `json:"du_max"`
	DUMin float64 `json:"du_min"`
	// EnforceRateLimits clamps the change in output per second to
	// [DUMin, DUMax] before the magnitude clamp.
	EnforceRateLimits bool `json:"enforce_rate_limits"`

	Noise    bool    `json:"noise"`
	NoiseMax float64 `json:"noise_max"`
	NoiseMin float64 `json:"noise_min"`
}

// PID drives x towards XRef. The output is negated so a positive error
// produces a negative command.
type PID struct {
	params PIDParams
	noise  distuv.Uniform

	integral    float64
	prevError   float64
	prevOutput  float64
	initialized bool
}

func NewPID(params PIDParams, src rand.Source) *PID {
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.NewPCG(seed, seed)
	}
	return &PID{
		params: params,
		noise:  distuv.Uniform{Min: params.NoiseMin, Max: params.NoiseMax, Src: src},
	}
}

func (p *PID) Params() PIDParams {
	return p.params
}

func (p *PID) Reset() {
	p.integral = 0
	p.prevError = 0
	p.prevOutput = 0
	p.initialized = false
}

// Solve returns the command for the measured value x.
func (p *PID) Solve(x float64) float64 {
	e := x - p.params.XRef
	p.integral += e * p.params.DT

	de := 0.0
	if p.initialized && p.params.DT > 0 {
		de = (e - p.prevError) / p.params.DT
	}

	u := -(p.params.Kp*e + p.params.Ki*p.integral + p.params.Kd*de)
	if p.params.Noise {
		u += p.noise.Rand()
	}

	if p.params.EnforceRateLimits && p.initialized {
		du := m.Clamp(u-p.prevOutput, p.params.DUMin*p.params.DT, p.params.DUMax*p.params.DT)
		u = p.prevOutput + du
	}
	u = m.Clamp(u, p.params.UMin, p.params.UMax)

	p.prevError = e
	p.prevOutput = u
	p.initialized = true
	return u
}
