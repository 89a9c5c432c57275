package controller

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pfeifer.dev/barc/track"
	"pfeifer.dev/barc/vehicle"
)

func wrapperOn(t *testing.T) (*PIDWrapper, track.Track) {
	trk, err := track.Get("barc_circle")
	require.NoError(t, err)
	return NewPIDWrapper(DefaultWrapperConfig(), trk), trk
}

func placed(t *testing.T, trk track.Track, p vehicle.ParametricPose, vLong float64) *vehicle.State {
	state := &vehicle.State{}
	state.SetParam(p)
	state.Vel.VLong = vLong
	require.NoError(t, trk.LocalToGlobalTyped(state))
	return state
}

func TestBounds(t *testing.T) {
	w, trk := wrapperOn(t)
	b := w.Bounds()

	assert.InDelta(t, 2*trk.Length(), b.StateUpper.Param.S, 1e-12)
	assert.InDelta(t, 0.55-0.0975, b.StateUpper.Param.XTran, 1e-12)
	assert.Equal(t, 100.0, b.StateUpper.Param.EPsi)
	assert.Equal(t, 10.0, b.StateUpper.Vel.VLong)
	assert.Equal(t, vehicle.Actuation{UA: 2.0, USteer: 0.436}, b.StateUpper.Act)
	assert.Equal(t, vehicle.Actuation{UA: -2.0, USteer: -0.436}, b.StateLower.Act)
	assert.InDelta(t, -2*trk.Length(), b.StateLower.Param.S, 1e-12)
	assert.Equal(t, vehicle.Actuation{UA: 20, USteer: 4.5}, b.RateUpper)
	assert.Equal(t, vehicle.Actuation{UA: -20, USteer: -4.5}, b.RateLower)
}

func TestWrapperContract(t *testing.T) {
	w, trk := wrapperOn(t)

	_, _, err := w.Step(placed(t, trk, vehicle.ParametricPose{S: 1}, 1))
	assert.ErrorIs(t, err, ErrNotReset)

	w.Reset()
	_, _, err = w.Step(nil)
	assert.ErrorIs(t, err, ErrNilState)
}

func TestWrapperStep(t *testing.T) {
	w, trk := wrapperOn(t)
	w.Reset()

	state := placed(t, trk, vehicle.ParametricPose{S: 0.1}, 0.5)
	act, status, err := w.Step(state)
	require.NoError(t, err)

	assert.Equal(t, Status{Success: true, Code: 0}, status)
	assert.InDelta(t, 0.75, act.UA, 1e-9)
	assert.InDelta(t, 0.0, act.USteer, 1e-9)
	assert.Equal(t, act, state.Act)
	assert.Equal(t, vehicle.FrameBoth, state.Frame)
	assert.InDelta(t, 0.1, w.Time(), 1e-12)
}

func TestWrapperSteersTowardsCentreline(t *testing.T) {
	w, trk := wrapperOn(t)
	w.Reset()

	act, _, err := w.Step(placed(t, trk, vehicle.ParametricPose{S: 2, XTran: 0.2}, 1))
	require.NoError(t, err)
	assert.Less(t, act.USteer, 0.0)

	act, _, err = w.Step(placed(t, trk, vehicle.ParametricPose{S: 2, XTran: -0.2}, 1))
	require.NoError(t, err)
	assert.Greater(t, act.USteer, 0.0)
}

func TestWrapperWrapsArcLength(t *testing.T) {
	w, trk := wrapperOn(t)
	w.Reset()

	for _, s := range []float64{trk.Length() - 1e-3, trk.Length() + 0.5, 3*trk.Length() + 0.25, -0.5} {
		state := placed(t, trk, vehicle.ParametricPose{S: s}, 1)
		_, _, err := w.Step(state)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, state.Param.S, 0.0)
		assert.Less(t, state.Param.S, trk.Length())
		assert.InDelta(t, math.Mod(s+trk.Length(), trk.Length()), state.Param.S, 1e-9, "s=%f", s)
	}
}

func TestLaneFollowerReset(t *testing.T) {
	params := speedParams()
	params.Ki = 1
	f := NewPIDLaneFollower(0.1, NewPID(PIDParams{DT: 0.1, Kp: 0.5, UMax: 0.436, UMin: -0.436}, nil), NewPID(params, nil))

	state := &vehicle.State{Vel: vehicle.BodyVelocity{VLong: 0.5}}
	f.Step(state)
	first := state.Act
	f.Step(state)
	assert.NotEqual(t, first.UA, state.Act.UA)

	f.Reset()
	f.Step(state)
	assert.Equal(t, first, state.Act)
}
