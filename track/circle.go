package track

import (
	"math"

	"github.com/pkg/errors"
	m "pfeifer.dev/barc/math"
	"pfeifer.dev/barc/vehicle"
)

var ErrDegenerate = errors.New("position has no curvilinear projection")

// Circle is a constant radius loop centred at (0, Radius). Arc length zero is
// the origin with the centreline heading along +x, the loop runs counter
// clockwise and x_tran is positive towards the centre.
type Circle struct {
	name      string
	radius    float64
	halfWidth float64
	slack     float64
}

func NewCircle(name string, radius, halfWidth, slack float64) *Circle {
	return &Circle{name: name, radius: radius, halfWidth: halfWidth, slack: slack}
}

func (c *Circle) Name() string       { return c.name }
func (c *Circle) Length() float64    { return 2 * math.Pi * c.radius }
func (c *Circle) HalfWidth() float64 { return c.halfWidth }
func (c *Circle) Slack() float64     { return c.slack }

func (c *Circle) LocalToGlobal(s, xTran, ePsi float64) (x, y, psi float64) {
	theta := s / c.radius
	r := c.radius - xTran
	x = r * math.Sin(theta)
	y = c.radius - r*math.Cos(theta)
	psi = m.WrapToPi(theta + ePsi)
	return x, y, psi
}

func (c *Circle) globalToLocal(x, y, psi float64) (s, xTran, ePsi float64, err error) {
	dx := x
	dy := c.radius - y
	r := math.Hypot(dx, dy)
	if r < 1e-9 || math.IsNaN(r) {
		return 0, 0, 0, errors.Wrapf(ErrDegenerate, "x=%f y=%f on track %s", x, y, c.name)
	}
	theta := m.Mod(math.Atan2(dx, dy), 2*math.Pi)
	s = theta * c.radius
	xTran = c.radius - r
	ePsi = m.WrapToPi(psi - theta)
	return s, xTran, ePsi, nil
}

func (c *Circle) GlobalToLocalTyped(state *vehicle.State) error {
	s, xTran, ePsi, err := c.globalToLocal(state.Pose.X, state.Pose.Y, state.Pose.Psi)
	if err != nil {
		return err
	}
	state.Param = vehicle.ParametricPose{S: s, XTran: xTran, EPsi: ePsi}
	state.Frame = vehicle.FrameBoth
	return nil
}

func (c *Circle) LocalToGlobalTyped(state *vehicle.State) error {
	x, y, psi := c.LocalToGlobal(state.Param.S, state.Param.XTran, state.Param.EPsi)
	if math.IsNaN(x) || math.IsNaN(y) {
		return errors.Errorf("invalid curvilinear pose %+v on track %s", state.Param, c.name)
	}
	state.Pose = vehicle.Pose{X: x, Y: y, Psi: psi}
	state.Frame = vehicle.FrameBoth
	return nil
}
