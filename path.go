package main

import (
	m "pfeifer.dev/barc/math"
)

// pathLength is the polyline length of a gps trajectory.
func pathLength(trajectory [][3]float64) float64 {
	total := 0.0
	for i := 1; i < len(trajectory); i++ {
		step := m.Line{
			Start: m.NewVector(trajectory[i-1][0], trajectory[i-1][1]),
			End:   m.NewVector(trajectory[i][0], trajectory[i][1]),
		}
		total += step.Length()
	}
	return total
}
