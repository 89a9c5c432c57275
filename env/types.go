package env

import (
	"image"
	"slices"

	"pfeifer.dev/barc/vehicle"
)

// Action is (acceleration, steering).
type Action [2]float64

type Spawning string

const (
	SpawnFixed  Spawning = "fixed"
	SpawnRandom Spawning = "random"
)

type ResetOptions struct {
	Spawning Spawning
	// Seed builds a fresh source when Reset is not handed one.
	Seed *uint64
}

type Observation struct {
	GPS      [3]float64 // x, y, psi
	Velocity [3]float64 // v_long, v_tran, w_psi
	State    [6]float64 // v_long, v_tran, w_psi, s, x_tran, e_psi
	Camera   image.Image
}

type Info struct {
	VehicleState vehicle.State
	LapNo        int
	Terminated   bool
	AvgLapSpeed  float64
	MaxLapSpeed  float64
	MinLapSpeed  float64
	LapTime      float64
}

type StepResult struct {
	Observation Observation
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// Buffers hold the per episode trajectory.
type Buffers struct {
	Trajectory [][3]float64
	Velocities [][3]float64
	Inputs     []Action
}

// clone copies the buffers so callers never share the live slices.
func (b Buffers) clone() Buffers {
	return Buffers{
		Trajectory: slices.Clone(b.Trajectory),
		Velocities: slices.Clone(b.Velocities),
		Inputs:     slices.Clone(b.Inputs),
	}
}

func (b *Buffers) reset(obs Observation) {
	b.Trajectory = [][3]float64{obs.GPS}
	b.Velocities = [][3]float64{obs.Velocity}
	b.Inputs = []Action{}
}

func (b *Buffers) append(obs Observation, action Action) {
	b.Trajectory = append(b.Trajectory, obs.GPS)
	b.Velocities = append(b.Velocities, obs.Velocity)
	b.Inputs = append(b.Inputs, action)
}
