// Package dynamics defines the Integrator contract the environment uses to
// advance a vehicle, along with a kinematic bicycle reference implementation.
//
// The environment never looks inside an integrator: any model that can move a
// vehicle.State forward over a horizon, and report when it cannot, fits.
package dynamics

import (
	"github.com/pkg/errors"
	"pfeifer.dev/barc/vehicle"
)

// ErrInvalidState is wrapped by every integrator error raised because the
// state or the applied actuation left the model's valid domain.
var ErrInvalidState = errors.New("vehicle state left the valid integration domain")

// Integrator advances a vehicle state in place.
type Integrator interface {
	// Step integrates state forward by horizon seconds using the actuation
	// stored in state.Act. On error the state holds whatever partial result
	// was reached.
	Step(state *vehicle.State, horizon float64) error
}

// Resetter is implemented by integrators that keep internal memory (delay
// lines, filters) which must be cleared at the start of an episode.
type Resetter interface {
	Reset(state *vehicle.State)
}
