package math

import (
	m "math"
)

type Vector struct {
	X float64
	Y float64
}

func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) Subtract(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vector) Norm() float64 {
	return m.Hypot(v.X, v.Y)
}

func (v Vector) DistanceTo(end Vector) float64 {
	return end.Subtract(v).Norm()
}
