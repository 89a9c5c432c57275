package controller

import (
	"pfeifer.dev/barc/vehicle"
)

// PIDLaneFollower pairs a speed loop on v_long with a steering loop on the
// combined lateral and heading error.
type PIDLaneFollower struct {
	DT    float64
	steer *PID
	speed *PID
}

func NewPIDLaneFollower(dt float64, steer, speed *PID) *PIDLaneFollower {
	return &PIDLaneFollower{DT: dt, steer: steer, speed: speed}
}

// Step writes the actuation into state.Act.
func (f *PIDLaneFollower) Step(state *vehicle.State) {
	state.Act.UA = f.speed.Solve(state.Vel.VLong)
	state.Act.USteer = f.steer.Solve(state.Param.XTran + state.Param.EPsi)
}

func (f *PIDLaneFollower) Reset() {
	f.steer.Reset()
	f.speed.Reset()
}
