package env

import (
	m "pfeifer.dev/barc/math"
	"pfeifer.dev/barc/vehicle"
)

// Gate is the start/finish line: a vertical segment at x=0 spanning the track
// width.
func Gate(halfWidth float64) m.Line {
	return m.Line{
		Start: m.NewVector(0, halfWidth),
		End:   m.NewVector(0, -halfWidth),
	}
}

// CrossedGate reports whether the path from prev to cur touches the gate. It
// says nothing about the direction of travel.
func CrossedGate(prev, cur m.Vector, halfWidth float64) bool {
	path := m.Line{Start: cur, End: prev}
	return path.Intersects(Gate(halfWidth))
}

// LapCompleted is a forward gate crossing: the path crosses the gate and the
// arc length wrapped back past zero.
func LapCompleted(prev, cur vehicle.State, halfWidth float64) bool {
	return CrossedGate(prev.Position(), cur.Position(), halfWidth) && cur.Param.S < prev.Param.S
}
