// Package track defines the track oracle consumed by the environment and
// controllers, and ships a circular reference track.
package track

import (
	"pfeifer.dev/barc/vehicle"
)

// Track maps between the curvilinear frame (s, x_tran, e_psi) and the global
// frame (x, y, psi). The typed conversions update the state in place.
type Track interface {
	Name() string
	Length() float64
	HalfWidth() float64
	// Slack is the extra lateral margin beyond HalfWidth tolerated while
	// spawning and integrating.
	Slack() float64
	LocalToGlobal(s, xTran, ePsi float64) (x, y, psi float64)
	GlobalToLocalTyped(state *vehicle.State) error
	LocalToGlobalTyped(state *vehicle.State) error
}
