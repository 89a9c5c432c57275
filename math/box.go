package math

type Box struct {
	MinPos Vector
	MaxPos Vector
}

// BoundingBox returns the smallest axis aligned box containing both points.
func BoundingBox(a, b Vector) Box {
	return Box{
		MinPos: Vector{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		MaxPos: Vector{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

func (b *Box) PosInside(p Vector) bool {
	return p.X >= b.MinPos.X && p.X <= b.MaxPos.X && p.Y >= b.MinPos.Y && p.Y <= b.MaxPos.Y
}
