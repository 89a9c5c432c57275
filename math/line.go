package math

type Line struct {
	Start, End Vector
}

const (
	COLLINEAR         = 0
	CLOCKWISE         = 1
	COUNTER_CLOCKWISE = 2
)

func (l *Line) Length() float64 {
	return l.Start.DistanceTo(l.End)
}

// Orientation of the ordered triple (p, q, r).
func Orientation(p, q, r Vector) int {
	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	if val == 0 {
		return COLLINEAR
	}
	if val > 0 {
		return CLOCKWISE
	}
	return COUNTER_CLOCKWISE
}

// OnSegment reports whether q lies within the bounding box of segment pr. Only
// meaningful when p, q and r are collinear.
func OnSegment(p, q, r Vector) bool {
	box := BoundingBox(p, r)
	return box.PosInside(q)
}

// Intersects reports whether the two closed segments share at least one point.
// Touching endpoints and collinear overlap count as an intersection.
func (l *Line) Intersects(other Line) bool {
	p1, q1 := l.Start, l.End
	p2, q2 := other.Start, other.End

	o1 := Orientation(p1, q1, p2)
	o2 := Orientation(p1, q1, q2)
	o3 := Orientation(p2, q2, p1)
	o4 := Orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	if o1 == COLLINEAR && OnSegment(p1, p2, q1) {
		return true
	}
	if o2 == COLLINEAR && OnSegment(p1, q2, q1) {
		return true
	}
	if o3 == COLLINEAR && OnSegment(p2, p1, q2) {
		return true
	}
	if o4 == COLLINEAR && OnSegment(p2, q1, q2) {
		return true
	}

	return false
}
