package dynamics

import (
	"math"

	"github.com/pkg/errors"
	m "pfeifer.dev/barc/math"
	"pfeifer.dev/barc/track"
	"pfeifer.dev/barc/vehicle"
)

type BicycleConfig struct {
	DT             float64 `json:"dt"`               // sub step, s
	WheelDistFront float64 `json:"wheel_dist_front"` // m
	WheelDistRear  float64 `json:"wheel_dist_rear"`  // m
	MaxSpeed       float64 `json:"max_speed"`        // m/s
	DelayAccel     float64 `json:"delay_accel"`      // s
	DelaySteer     float64 `json:"delay_steer"`      // s
}

func DefaultBicycleConfig() BicycleConfig {
	return BicycleConfig{
		DT:             0.01,
		WheelDistFront: 0.13,
		WheelDistRear:  0.13,
		MaxSpeed:       10,
		DelayAccel:     0.1,
		DelaySteer:     0.1,
	}
}

// delayLine is a fixed length FIFO of past commands.
type delayLine struct {
	values []float64
	index  int
}

func newDelayLine(delay, dt float64) delayLine {
	n := 0
	if dt > 0 {
		n = int(math.Round(delay / dt))
	}
	return delayLine{values: make([]float64, max(n, 0))}
}

func (d *delayLine) fill(v float64) {
	for i := range d.values {
		d.values[i] = v
	}
	d.index = 0
}

// push stores v and returns the command issued len(values) pushes ago.
func (d *delayLine) push(v float64) float64 {
	if len(d.values) == 0 {
		return v
	}
	out := d.values[d.index]
	d.values[d.index] = v
	d.index = (d.index + 1) % len(d.values)
	return out
}

// KinematicBicycle integrates a kinematic single track model with explicit
// Euler sub steps. When a track is attached every sub step is projected onto
// it and the step fails once the vehicle leaves half width plus slack.
type KinematicBicycle struct {
	cfg   BicycleConfig
	track track.Track
	accel delayLine
	steer delayLine
}

func NewKinematicBicycle(cfg BicycleConfig, trk track.Track) *KinematicBicycle {
	return &KinematicBicycle{
		cfg:   cfg,
		track: trk,
		accel: newDelayLine(cfg.DelayAccel, cfg.DT),
		steer: newDelayLine(cfg.DelaySteer, cfg.DT),
	}
}

func (b *KinematicBicycle) Reset(state *vehicle.State) {
	b.accel.fill(state.Act.UA)
	b.steer.fill(state.Act.USteer)
}

func (b *KinematicBicycle) Step(state *vehicle.State, horizon float64) error {
	steps := 1
	if b.cfg.DT > 0 {
		steps = max(int(math.Round(horizon/b.cfg.DT)), 1)
	}
	h := horizon / float64(steps)

	for range steps {
		ua := b.accel.push(state.Act.UA)
		us := b.steer.push(state.Act.USteer)
		b.integrate(state, ua, us, h)
		state.T += h

		if !state.Finite() {
			return errors.Wrapf(ErrInvalidState, "non finite state at t=%.3f", state.T)
		}
		if math.Abs(state.Vel.VLong) > b.cfg.MaxSpeed {
			return errors.Wrapf(ErrInvalidState, "speed %.3f above %.3f", state.Vel.VLong, b.cfg.MaxSpeed)
		}
		if b.track == nil {
			continue
		}
		if err := b.track.GlobalToLocalTyped(state); err != nil {
			return errors.Wrapf(ErrInvalidState, "projection failed: %v", err)
		}
		limit := b.track.HalfWidth() + b.track.Slack()
		if math.Abs(state.Param.XTran) > limit {
			return errors.Wrapf(ErrInvalidState, "x_tran %.3f outside %.3f", state.Param.XTran, limit)
		}
	}
	return nil
}

func (b *KinematicBicycle) integrate(state *vehicle.State, ua, us, h float64) {
	wheelbase := b.cfg.WheelDistFront + b.cfg.WheelDistRear

	v := state.Vel.VLong + ua*h
	wPsi := v * math.Tan(us) / wheelbase
	vTran := wPsi * b.cfg.WheelDistRear

	psi := state.Pose.Psi
	state.SetPose(vehicle.Pose{
		X:   state.Pose.X + (v*math.Cos(psi)-vTran*math.Sin(psi))*h,
		Y:   state.Pose.Y + (v*math.Sin(psi)+vTran*math.Cos(psi))*h,
		Psi: m.WrapToPi(psi + wPsi*h),
	})
	state.Vel = vehicle.BodyVelocity{VLong: v, VTran: vTran, WPsi: wPsi}
}
