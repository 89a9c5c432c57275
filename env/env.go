// Package env implements the episodic lap environment: it clips and applies
// actions, integrates the vehicle, detects lap completion at the start/finish
// gate, and reports reward, termination and truncation for every step.
//
// Termination marks the start of a new lap and is not a reason to stop a
// rollout. Truncation marks a constraint violation (off track, stalled,
// facing backwards, lap limit reached, or a failed integration) and is.
package env

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
	"pfeifer.dev/barc/dynamics"
	m "pfeifer.dev/barc/math"
	"pfeifer.dev/barc/track"
	"pfeifer.dev/barc/vehicle"
)

var ErrNotReset = errors.New("step called before reset")

const (
	FIXED_SPAWN_S     = 0.1 // m
	FIXED_SPAWN_SPEED = 0.5 // m/s
)

type Config struct {
	T0      float64 `json:"t0"`
	DT      float64 `json:"dt"`
	MaxLaps int     `json:"max_laps"`
	// ActionBounds are the symmetric limits on (acceleration, steering).
	ActionBounds    Action  `json:"action_bounds"`
	MinSpeed        float64 `json:"min_speed"`
	MaxHeadingError float64 `json:"max_heading_error"`

	SpawnMinS         float64 `json:"spawn_min_s"`
	SpawnEndMargin    float64 `json:"spawn_end_margin"`
	SpawnHeadingError float64 `json:"spawn_heading_error"`
	SpawnMinSpeed     float64 `json:"spawn_min_speed"`
	SpawnMaxSpeed     float64 `json:"spawn_max_speed"`
}

func DefaultConfig() Config {
	return Config{
		T0:                0,
		DT:                0.1,
		MaxLaps:           100,
		ActionBounds:      Action{2.0, 0.45},
		MinSpeed:          0.25,
		MaxHeadingError:   math.Pi / 2,
		SpawnMinS:         0.1,
		SpawnEndMargin:    2,
		SpawnHeadingError: math.Pi / 6,
		SpawnMinSpeed:     0.5,
		SpawnMaxSpeed:     2.0,
	}
}

type Env struct {
	cfg      Config
	track    track.Track
	dynamics dynamics.Integrator
	src      rand.Source
	camera   *cameraLink

	running  bool
	state    vehicle.State
	last     vehicle.State
	t        float64
	lapStart float64
	lapNo    int
	stats    LapStats
	buffers  Buffers
}

func New(cfg Config, trk track.Track, dyn dynamics.Integrator) *Env {
	seed := uint64(time.Now().UnixNano())
	return &Env{
		cfg:      cfg,
		track:    trk,
		dynamics: dyn,
		src:      rand.NewPCG(seed, seed),
	}
}

// AttachCamera adds an image to every observation. Failed queries reconnect
// through connect after backoff until one succeeds. A zero backoff uses
// DEFAULT_CAMERA_BACKOFF.
func (e *Env) AttachCamera(cam Camera, connect Connector, backoff time.Duration) {
	if backoff <= 0 {
		backoff = DEFAULT_CAMERA_BACKOFF
	}
	e.camera = &cameraLink{camera: cam, connect: connect, backoff: backoff}
}

func (e *Env) Track() track.Track   { return e.track }
func (e *Env) LapNo() int           { return e.lapNo }
func (e *Env) Time() float64        { return e.t }
func (e *Env) LapStart() float64    { return e.lapStart }
func (e *Env) ActionBounds() Action { return e.cfg.ActionBounds }
func (e *Env) Buffers() Buffers     { return e.buffers.clone() }
func (e *Env) State() vehicle.State { return e.state }

func (e *Env) ClipAction(action Action) Action {
	b := e.cfg.ActionBounds
	return Action{
		m.Clamp(action[0], -b[0], b[0]),
		m.Clamp(action[1], -b[1], b[1]),
	}
}

// Reset spawns a new vehicle and starts an episode. Random spawns draw from
// src; when src is nil a source is built from opts.Seed, and failing that the
// environment keeps using its previous source.
func (e *Env) Reset(src rand.Source, opts ResetOptions) (Observation, Info, error) {
	if src == nil && opts.Seed != nil {
		src = rand.NewPCG(*opts.Seed, *opts.Seed)
	}
	if src != nil {
		e.src = src
	}

	if opts.Spawning == SpawnFixed {
		slog.Debug("Respawning at fixed location", "track", e.track.Name())
		e.state = e.fixedSpawn()
	} else {
		e.state = e.randomSpawn()
	}
	e.state.T = e.cfg.T0

	err := e.track.LocalToGlobalTyped(&e.state)
	if err != nil {
		e.running = false
		return Observation{}, Info{}, errors.Wrap(err, "could not place spawned vehicle")
	}
	e.last = e.state

	if r, ok := e.dynamics.(dynamics.Resetter); ok {
		r.Reset(&e.state)
	}

	e.t = e.cfg.T0
	e.lapStart = e.t
	e.lapNo = 0
	e.stats.Reset(e.state.Speed())
	e.running = true

	obs := e.observation()
	e.buffers.reset(obs)
	return obs, e.info(false), nil
}

func (e *Env) fixedSpawn() vehicle.State {
	state := vehicle.State{}
	state.SetParam(vehicle.ParametricPose{S: FIXED_SPAWN_S})
	state.Vel.VLong = FIXED_SPAWN_SPEED
	return state
}

func (e *Env) randomSpawn() vehicle.State {
	uniform := func(lo, hi float64) float64 {
		return distuv.Uniform{Min: lo, Max: hi, Src: e.src}.Rand()
	}
	lateral := e.track.HalfWidth() + e.track.Slack()

	s := uniform(e.cfg.SpawnMinS, e.track.Length()-e.cfg.SpawnEndMargin)
	xTran := uniform(-lateral, lateral)
	ePsi := uniform(-e.cfg.SpawnHeadingError, e.cfg.SpawnHeadingError)
	vLong := uniform(e.cfg.SpawnMinSpeed, e.cfg.SpawnMaxSpeed)

	state := vehicle.State{}
	state.SetParam(vehicle.ParametricPose{S: s, XTran: xTran, EPsi: ePsi})
	state.Vel.VLong = vLong
	return state
}

// Step applies one clipped action for DT seconds. The only error is calling
// Step outside of a running episode.
func (e *Env) Step(action Action) (StepResult, error) {
	if !e.running {
		return StepResult{}, ErrNotReset
	}

	action = e.ClipAction(action)
	e.state.Act = vehicle.Actuation{UA: action[0], USteer: action[1]}
	e.last = e.state

	truncated := false
	if err := e.dynamics.Step(&e.state, e.cfg.DT); err != nil {
		slog.Debug("Dynamics step failed, truncating", "error", err, "t", e.t)
		truncated = true
	}
	if err := e.track.GlobalToLocalTyped(&e.state); err != nil {
		slog.Debug("Could not project state onto track, truncating", "error", err, "t", e.t)
		truncated = true
	}

	e.t += e.cfg.DT
	e.stats.Update(e.state.Speed())

	obs := e.observation()
	terminated := LapCompleted(e.last, e.state, e.track.HalfWidth())
	reward := e.reward(terminated)
	truncated = truncated || e.constraintViolated()
	info := e.info(terminated)

	e.buffers.append(obs, action)

	if terminated {
		slog.Info("Lap finished",
			"lap", e.lapNo,
			"lap_time", info.LapTime,
			"avg_v", info.AvgLapSpeed,
			"max_v", info.MaxLapSpeed,
			"min_v", info.MinLapSpeed,
		)
		e.lapNo++
		e.lapStart = e.t
		e.stats.Reset(e.state.Speed())
	}

	return StepResult{
		Observation: obs,
		Reward:      reward,
		Terminated:  terminated,
		Truncated:   truncated,
		Info:        info,
	}, nil
}

// reward is the arc length progress this step, corrected by one track length
// when the vehicle completed a lap.
func (e *Env) reward(lapCompleted bool) float64 {
	ds := e.state.Param.S - e.last.Param.S
	if lapCompleted {
		ds += e.track.Length()
	}
	return ds
}

func (e *Env) constraintViolated() bool {
	conditions := []bool{
		math.Abs(e.state.Param.XTran) > e.track.HalfWidth(),
		e.lapNo >= e.cfg.MaxLaps,
		e.state.Vel.VLong < e.cfg.MinSpeed,
		math.Abs(e.state.Param.EPsi) > e.cfg.MaxHeadingError,
	}
	for _, c := range conditions {
		if c {
			return true
		}
	}
	return false
}

func (e *Env) observation() Observation {
	s := e.state
	obs := Observation{
		GPS:      [3]float64{s.Pose.X, s.Pose.Y, s.Pose.Psi},
		Velocity: [3]float64{s.Vel.VLong, s.Vel.VTran, s.Vel.WPsi},
		State:    [6]float64{s.Vel.VLong, s.Vel.VTran, s.Vel.WPsi, s.Param.S, s.Param.XTran, s.Param.EPsi},
	}
	if e.camera != nil {
		obs.Camera = e.camera.query(s, e.track.Name())
	}
	return obs
}

func (e *Env) info(terminated bool) Info {
	return Info{
		VehicleState: e.state,
		LapNo:        e.lapNo,
		Terminated:   terminated,
		AvgLapSpeed:  e.stats.Mean(),
		MaxLapSpeed:  e.stats.Max,
		MinLapSpeed:  e.stats.Min,
		LapTime:      float64(e.stats.Steps) * e.cfg.DT,
	}
}
