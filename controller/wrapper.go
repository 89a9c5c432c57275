package controller

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	m "pfeifer.dev/barc/math"
	"pfeifer.dev/barc/track"
	"pfeifer.dev/barc/vehicle"
)

var (
	ErrNilState = errors.New("controller stepped with a nil state")
	ErrNotReset = errors.New("controller stepped before reset")
)

const (
	DEFAULT_VEHICLE_LENGTH = 0.37  // m
	DEFAULT_VEHICLE_WIDTH  = 0.195 // m
	STEER_NOISE            = 0.2
	SPEED_NOISE            = 0.9
)

type WrapperConfig struct {
	DT                float64 `json:"dt"`
	T0                float64 `json:"t0"`
	VehicleLength     float64 `json:"vehicle_length"`
	VehicleWidth      float64 `json:"vehicle_width"`
	Noise             bool    `json:"noise"`
	EnforceRateLimits bool    `json:"enforce_rate_limits"`
	SteerKp           float64 `json:"steer_kp"`
	SpeedKp           float64 `json:"speed_kp"`
	TargetSpeed       float64 `json:"target_speed"`
}

func DefaultWrapperConfig() WrapperConfig {
	return WrapperConfig{
		DT:            0.1,
		VehicleLength: DEFAULT_VEHICLE_LENGTH,
		VehicleWidth:  DEFAULT_VEHICLE_WIDTH,
		SteerKp:       0.5,
		SpeedKp:       1.5,
		TargetSpeed:   1.0,
	}
}

// Status reports the outcome of a controller step. The PID wrapper always
// succeeds.
type Status struct {
	Success bool
	Code    int
}

// PIDWrapper runs a PID lane follower on a vehicle state that is stepped
// elsewhere and keeps the state's track frame in sync.
type PIDWrapper struct {
	cfg    WrapperConfig
	track  track.Track
	bounds Bounds
	src    rand.Source

	follower *PIDLaneFollower
	t        float64
}

func NewPIDWrapper(cfg WrapperConfig, trk track.Track) *PIDWrapper {
	return &PIDWrapper{
		cfg:    cfg,
		track:  trk,
		bounds: NewBounds(trk, cfg.VehicleLength, cfg.VehicleWidth),
	}
}

// SetSource sets the random source used for command noise on the next Reset.
func (w *PIDWrapper) SetSource(src rand.Source) {
	w.src = src
}

func (w *PIDWrapper) Bounds() Bounds {
	return w.bounds
}

func (w *PIDWrapper) Time() float64 {
	return w.t
}

func (w *PIDWrapper) Reset() {
	steer := PIDParams{
		DT:                w.cfg.DT,
		Kp:                w.cfg.SteerKp,
		XRef:              0,
		UMax:              w.bounds.StateUpper.Act.USteer,
		UMin:              w.bounds.StateLower.Act.USteer,
		DUMax:             w.bounds.RateUpper.USteer,
		DUMin:             w.bounds.RateLower.USteer,
		EnforceRateLimits: w.cfg.EnforceRateLimits,
		Noise:             w.cfg.Noise,
		NoiseMax:          STEER_NOISE,
		NoiseMin:          -STEER_NOISE,
	}
	speed := PIDParams{
		DT:                w.cfg.DT,
		Kp:                w.cfg.SpeedKp,
		XRef:              w.cfg.TargetSpeed,
		UMax:              w.bounds.StateUpper.Act.UA,
		UMin:              w.bounds.StateLower.Act.UA,
		DUMax:             w.bounds.RateUpper.UA,
		DUMin:             w.bounds.RateLower.UA,
		EnforceRateLimits: w.cfg.EnforceRateLimits,
		Noise:             w.cfg.Noise,
		NoiseMax:          SPEED_NOISE,
		NoiseMin:          -SPEED_NOISE,
	}
	w.follower = NewPIDLaneFollower(w.cfg.DT, NewPID(steer, w.src), NewPID(speed, w.src))
	w.t = w.cfg.T0
}

// Step writes a new actuation into state, re-projects it onto the track and
// returns the actuation. It does not move the vehicle.
func (w *PIDWrapper) Step(state *vehicle.State) (vehicle.Actuation, Status, error) {
	if state == nil {
		return vehicle.Actuation{}, Status{}, ErrNilState
	}
	if w.follower == nil {
		return vehicle.Actuation{}, Status{}, ErrNotReset
	}

	w.follower.Step(state)
	err := w.track.GlobalToLocalTyped(state)
	if err != nil {
		return state.Act, Status{}, errors.Wrap(err, "could not project state onto track")
	}
	state.Param.S = m.Mod(state.Param.S, w.track.Length())
	w.t += w.cfg.DT

	return state.Act, Status{Success: true, Code: 0}, nil
}
