package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	m "pfeifer.dev/barc/math"
	"pfeifer.dev/barc/vehicle"
)

func TestCrossedGate(t *testing.T) {
	hw := 0.55
	cases := []struct {
		name      string
		prev, cur m.Vector
		crossed   bool
	}{
		{"through centre", m.NewVector(-0.1, 0), m.NewVector(0.1, 0), true},
		{"backwards", m.NewVector(0.1, 0.2), m.NewVector(-0.1, 0.2), true},
		{"ends on the gate", m.NewVector(-0.1, 0), m.NewVector(0, 0), true},
		{"touches gate end", m.NewVector(-0.1, hw), m.NewVector(0.1, hw), true},
		{"ends on upper gate end", m.NewVector(-0.1, 0.5), m.NewVector(0, hw), true},
		{"leaves upper gate end", m.NewVector(0, hw), m.NewVector(-0.1, 0.5), true},
		{"ends on lower gate end", m.NewVector(-0.1, -0.6), m.NewVector(0, -hw), true},
		{"above the gate", m.NewVector(-0.1, 1), m.NewVector(0.1, 1), false},
		{"before the gate", m.NewVector(-0.3, 0), m.NewVector(-0.1, 0), false},
		{"after the gate", m.NewVector(0.1, 0), m.NewVector(0.3, 0), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.crossed, CrossedGate(c.prev, c.cur, hw))
		})
	}
}

func stateAt(x, y, s float64) vehicle.State {
	return vehicle.State{
		Pose:  vehicle.Pose{X: x, Y: y},
		Param: vehicle.ParametricPose{S: s},
	}
}

func TestLapCompleted(t *testing.T) {
	hw := 0.55
	// forward crossing wraps arc length
	assert.True(t, LapCompleted(stateAt(-0.1, 0, 18.7), stateAt(0.1, 0, 0.1), hw))
	// reversing across the gate grows arc length
	assert.False(t, LapCompleted(stateAt(0.1, 0, 0.1), stateAt(-0.1, 0, 18.7), hw))
	// stopping exactly on either gate end
	assert.True(t, LapCompleted(stateAt(-0.1, 0.5, 18.8), stateAt(0, hw, 0.05), hw))
	assert.True(t, LapCompleted(stateAt(-0.1, -0.6, 18.8), stateAt(0, -hw, 0.05), hw))
	assert.False(t, LapCompleted(stateAt(-0.1, 0.5, 18.7), stateAt(0, hw, 18.8), hw))
	// arc length wrap without touching the gate
	assert.False(t, LapCompleted(stateAt(-0.1, 2, 18.7), stateAt(0.1, 2, 0.1), hw))
}

func TestLapStats(t *testing.T) {
	s := LapStats{}
	s.Reset(1)
	s.Update(3)
	s.Update(2)

	assert.Equal(t, 3.0, s.Max)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3, s.Steps)
	assert.InDelta(t, 2.0, s.Mean(), 1e-12)
	assert.Equal(t, 0.0, (&LapStats{}).Mean())
}
