package vehicle

import (
	"math"

	m "pfeifer.dev/barc/math"
)

// Frame records which pose representation was written last.
type Frame int

const (
	FrameNone Frame = iota
	FrameLocal
	FrameGlobal
	FrameBoth
)

func (f Frame) String() string {
	switch f {
	case FrameLocal:
		return "local"
	case FrameGlobal:
		return "global"
	case FrameBoth:
		return "both"
	}
	return "none"
}

// Pose is the global cartesian pose.
type Pose struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Psi float64 `json:"psi"`
}

// ParametricPose is the track relative (curvilinear) pose.
type ParametricPose struct {
	S     float64 `json:"s"`
	XTran float64 `json:"x_tran"`
	EPsi  float64 `json:"e_psi"`
}

type BodyVelocity struct {
	VLong float64 `json:"v_long"`
	VTran float64 `json:"v_tran"`
	WPsi  float64 `json:"w_psi"`
}

type Actuation struct {
	UA     float64 `json:"u_a"`
	USteer float64 `json:"u_steer"`
}

// State is a plain value. Assigning it copies everything, so a saved State
// never aliases the one being stepped.
type State struct {
	T     float64        `json:"t"`
	Pose  Pose           `json:"pose"`
	Param ParametricPose `json:"param"`
	Vel   BodyVelocity   `json:"vel"`
	Act   Actuation      `json:"act"`
	Frame Frame          `json:"frame"`
}

func (s *State) Speed() float64 {
	return math.Hypot(s.Vel.VLong, s.Vel.VTran)
}

func (s *State) Position() m.Vector {
	return m.NewVector(s.Pose.X, s.Pose.Y)
}

// SetPose writes the global pose and marks the local pose stale.
func (s *State) SetPose(p Pose) {
	s.Pose = p
	s.Frame = FrameGlobal
}

// SetParam writes the local pose and marks the global pose stale.
func (s *State) SetParam(p ParametricPose) {
	s.Param = p
	s.Frame = FrameLocal
}

func (s *State) Finite() bool {
	for _, v := range []float64{
		s.Pose.X, s.Pose.Y, s.Pose.Psi,
		s.Param.S, s.Param.XTran, s.Param.EPsi,
		s.Vel.VLong, s.Vel.VTran, s.Vel.WPsi,
		s.Act.UA, s.Act.USteer,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
