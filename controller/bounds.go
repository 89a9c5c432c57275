package controller

import (
	"pfeifer.dev/barc/track"
	"pfeifer.dev/barc/vehicle"
)

const (
	MAX_ACCEL       = 2.0   // m/s^2
	MAX_STEER       = 0.436 // rad
	MAX_ACCEL_RATE  = 20.0  // m/s^3
	MAX_STEER_RATE  = 4.5   // rad/s
	MAX_VELOCITY    = 10.0
	MAX_HEADING_ERR = 100.0
)

// Bounds are symmetric box limits on the state, actuation and actuation
// rate. Lower is always the negation of Upper.
type Bounds struct {
	StateUpper vehicle.State
	StateLower vehicle.State
	RateUpper  vehicle.Actuation
	RateLower  vehicle.Actuation
}

func NewBounds(trk track.Track, vehicleLength, vehicleWidth float64) Bounds {
	upper := vehicle.State{
		Param: vehicle.ParametricPose{
			S:     2 * trk.Length(),
			XTran: trk.HalfWidth() - vehicleWidth/2,
			EPsi:  MAX_HEADING_ERR,
		},
		Vel: vehicle.BodyVelocity{VLong: MAX_VELOCITY, VTran: MAX_VELOCITY, WPsi: MAX_VELOCITY},
		Act: vehicle.Actuation{UA: MAX_ACCEL, USteer: MAX_STEER},
	}
	rate := vehicle.Actuation{UA: MAX_ACCEL_RATE, USteer: MAX_STEER_RATE}

	return Bounds{
		StateUpper: upper,
		StateLower: negate(upper),
		RateUpper:  rate,
		RateLower:  vehicle.Actuation{UA: -rate.UA, USteer: -rate.USteer},
	}
}

func negate(s vehicle.State) vehicle.State {
	return vehicle.State{
		Param: vehicle.ParametricPose{S: -s.Param.S, XTran: -s.Param.XTran, EPsi: -s.Param.EPsi},
		Vel:   vehicle.BodyVelocity{VLong: -s.Vel.VLong, VTran: -s.Vel.VTran, WPsi: -s.Vel.WPsi},
		Act:   vehicle.Actuation{UA: -s.Act.UA, USteer: -s.Act.USteer},
	}
}
