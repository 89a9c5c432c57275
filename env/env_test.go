package env

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pfeifer.dev/barc/track"
	"pfeifer.dev/barc/vehicle"
)

// scriptedDynamics moves the vehicle along the centreline by a fixed arc
// length each step.
type scriptedDynamics struct {
	trk   track.Track
	ds    float64
	xTran float64
	err   error
	calls int
}

func (d *scriptedDynamics) Step(state *vehicle.State, horizon float64) error {
	d.calls++
	state.SetParam(vehicle.ParametricPose{S: state.Param.S + d.ds, XTran: d.xTran})
	if err := d.trk.LocalToGlobalTyped(state); err != nil {
		return err
	}
	state.T += horizon
	return d.err
}

func circle(t *testing.T) track.Track {
	trk, err := track.Get("barc_circle")
	require.NoError(t, err)
	return trk
}

func newScripted(t *testing.T, cfg Config) (*Env, *scriptedDynamics) {
	trk := circle(t)
	dyn := &scriptedDynamics{trk: trk, ds: trk.Length() / 100}
	return New(cfg, trk, dyn), dyn
}

func TestStepBeforeReset(t *testing.T) {
	e, _ := newScripted(t, DefaultConfig())
	_, err := e.Step(Action{0, 0})
	assert.ErrorIs(t, err, ErrNotReset)
}

func TestFixedSpawnSnapshot(t *testing.T) {
	e, _ := newScripted(t, DefaultConfig())
	obs, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	cupaloy.SnapshotT(t, fmt.Sprintf("x=%.4f y=%.4f psi=%.4f", obs.GPS[0], obs.GPS[1], obs.GPS[2]))
}

func TestFixedSpawnIsRepeatable(t *testing.T) {
	e, _ := newScripted(t, DefaultConfig())
	first, _, err := e.Reset(rand.NewPCG(1, 2), ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)
	second, _, err := e.Reset(rand.NewPCG(3, 4), ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	assert.Equal(t, first.GPS, second.GPS)
	assert.Equal(t, [6]float64{0.5, 0, 0, 0.1, 0, 0}, first.State)
}

func TestResetStats(t *testing.T) {
	e, _ := newScripted(t, DefaultConfig())
	_, info, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	assert.Equal(t, 0.5, info.MaxLapSpeed)
	assert.Equal(t, 0.5, info.MinLapSpeed)
	assert.Equal(t, 0.5, info.AvgLapSpeed)
	assert.Equal(t, 0, info.LapNo)
	assert.Len(t, e.Buffers().Trajectory, 1)
	assert.Len(t, e.Buffers().Velocities, 1)
	assert.Empty(t, e.Buffers().Inputs)
}

func TestSeededRandomSpawn(t *testing.T) {
	trk := circle(t)
	e1 := New(DefaultConfig(), trk, &scriptedDynamics{trk: trk})
	e2 := New(DefaultConfig(), trk, &scriptedDynamics{trk: trk})

	seed := uint64(42)
	obs1, _, err := e1.Reset(nil, ResetOptions{Spawning: SpawnRandom, Seed: &seed})
	require.NoError(t, err)
	obs2, _, err := e2.Reset(rand.NewPCG(seed, seed), ResetOptions{Spawning: SpawnRandom})
	require.NoError(t, err)

	assert.Equal(t, obs1.State, obs2.State)
	assert.Equal(t, obs1.GPS, obs2.GPS)
}

func TestRandomSpawnRanges(t *testing.T) {
	trk := circle(t)
	cfg := DefaultConfig()
	e := New(cfg, trk, &scriptedDynamics{trk: trk})
	src := rand.NewPCG(7, 11)
	lateral := trk.HalfWidth() + trk.Slack()

	for range 200 {
		_, info, err := e.Reset(src, ResetOptions{Spawning: SpawnRandom})
		require.NoError(t, err)
		s := info.VehicleState
		assert.GreaterOrEqual(t, s.Param.S, cfg.SpawnMinS)
		assert.LessOrEqual(t, s.Param.S, trk.Length()-cfg.SpawnEndMargin)
		assert.LessOrEqual(t, math.Abs(s.Param.XTran), lateral)
		assert.LessOrEqual(t, math.Abs(s.Param.EPsi), math.Pi/6)
		assert.GreaterOrEqual(t, s.Vel.VLong, 0.5)
		assert.LessOrEqual(t, s.Vel.VLong, 2.0)
		assert.Equal(t, vehicle.FrameBoth, s.Frame)
	}
}

func TestActionClipping(t *testing.T) {
	e, _ := newScripted(t, DefaultConfig())
	_, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	res, err := e.Step(Action{5, -1})
	require.NoError(t, err)
	assert.Equal(t, Action{2, -0.45}, e.Buffers().Inputs[0])
	assert.Equal(t, vehicle.Actuation{UA: 2, USteer: -0.45}, res.Info.VehicleState.Act)
	assert.Equal(t, Action{0.3, 0.1}, e.ClipAction(Action{0.3, 0.1}))
}

func TestOffTrackTruncates(t *testing.T) {
	e, dyn := newScripted(t, DefaultConfig())
	_, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	dyn.xTran = e.Track().HalfWidth() + 0.01
	res, err := e.Step(Action{0, 0})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.False(t, res.Terminated)
}

func TestOnTrackDoesNotTruncate(t *testing.T) {
	e, dyn := newScripted(t, DefaultConfig())
	_, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	dyn.xTran = e.Track().HalfWidth() - 0.01
	res, err := e.Step(Action{0, 0})
	require.NoError(t, err)
	assert.False(t, res.Truncated)
}

func TestIntegrationErrorTruncates(t *testing.T) {
	e, dyn := newScripted(t, DefaultConfig())
	_, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	dyn.err = errors.New("diverged")
	res, err := e.Step(Action{0, 0})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
}

func TestBuffersAreCopies(t *testing.T) {
	e, _ := newScripted(t, DefaultConfig())
	_, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)
	_, err = e.Step(Action{1, 0})
	require.NoError(t, err)

	b := e.Buffers()
	b.Trajectory[0] = [3]float64{9, 9, 9}
	b.Inputs[0] = Action{-1, -1}
	b.Velocities = append(b.Velocities, [3]float64{})

	fresh := e.Buffers()
	assert.NotEqual(t, [3]float64{9, 9, 9}, fresh.Trajectory[0])
	assert.Equal(t, Action{1, 0}, fresh.Inputs[0])
	assert.Len(t, fresh.Velocities, 2)
}

func TestLapReward(t *testing.T) {
	e, _ := newScripted(t, DefaultConfig())
	_, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	total := 0.0
	laps := 0
	for i := range 100 {
		res, err := e.Step(Action{0, 0})
		require.NoError(t, err)
		require.False(t, res.Truncated, "step %d", i)
		total += res.Reward
		if res.Terminated {
			laps++
			assert.Equal(t, 99, i)
			assert.Equal(t, 0, res.Info.LapNo)
			assert.InDelta(t, 10.1, res.Info.LapTime, 1e-9)
		}
	}

	assert.Equal(t, 1, laps)
	assert.Equal(t, 1, e.LapNo())
	assert.InDelta(t, e.Track().Length(), total, 1e-6)
	assert.InDelta(t, 10.0, e.LapStart(), 1e-9)
	assert.Len(t, e.Buffers().Trajectory, 101)
	assert.Len(t, e.Buffers().Inputs, 100)
}

func TestMaxLapsTruncates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLaps = 1
	e, _ := newScripted(t, cfg)
	_, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	var res StepResult
	for range 100 {
		res, err = e.Step(Action{0, 0})
		require.NoError(t, err)
	}
	require.True(t, res.Terminated)
	assert.False(t, res.Truncated)

	res, err = e.Step(Action{0, 0})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
}

func TestStalledVehicleTruncates(t *testing.T) {
	e, _ := newScripted(t, DefaultConfig())
	_, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)

	e.state.Vel.VLong = 0.2
	res, err := e.Step(Action{0, 0})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
}

type flakyCamera struct {
	fail bool
}

func (c *flakyCamera) QueryRGB(state vehicle.State) (image.Image, error) {
	if c.fail {
		return nil, errors.New("connection reset")
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func TestCameraReconnects(t *testing.T) {
	e, _ := newScripted(t, DefaultConfig())
	connects := 0
	connect := func(trackName string) (Camera, error) {
		connects++
		if connects == 1 {
			return nil, errors.New("server starting")
		}
		return &flakyCamera{}, nil
	}
	e.AttachCamera(&flakyCamera{fail: true}, connect, time.Millisecond)

	obs, _, err := e.Reset(nil, ResetOptions{Spawning: SpawnFixed})
	require.NoError(t, err)
	require.NotNil(t, obs.Camera)
	assert.Equal(t, 2, connects)

	res, err := e.Step(Action{0, 0})
	require.NoError(t, err)
	assert.NotNil(t, res.Observation.Camera)
	assert.Equal(t, 2, connects)
}
