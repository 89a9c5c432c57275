package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"pfeifer.dev/barc/controller"
	"pfeifer.dev/barc/env"
	ms "pfeifer.dev/barc/settings"
)

// Frame is one published step of an episode.
type Frame struct {
	Episode   int
	TrackName string
	Result    env.StepResult
}

type TelemetrySink interface {
	Publish(frame Frame) error
}

type EpisodeSummary struct {
	Episode    int     `json:"episode"`
	TrackName  string  `json:"track_name"`
	Steps      int     `json:"steps"`
	Laps       int     `json:"laps"`
	Return     float64 `json:"return"`
	Time       float64 `json:"time"`
	PathLength float64 `json:"path_length"`
	Truncated  bool    `json:"truncated"`
	// LastLapStart is the episode time the final, unfinished lap began.
	LastLapStart float64 `json:"last_lap_start"`
}

type Runner struct {
	Env        *env.Env
	Controller *controller.PIDWrapper
	Settings   ms.BarcSettings
	Sink       TelemetrySink
	Extended   *ExtendedState
	OnEpisode  func(EpisodeSummary)
	sleep      func(time.Duration)
	src        rand.Source
}

func NewRunner(e *env.Env, ctrl *controller.PIDWrapper, s ms.BarcSettings) *Runner {
	r := &Runner{
		Env:        e,
		Controller: ctrl,
		Settings:   s,
		sleep:      time.Sleep,
	}
	if s.Seed != 0 {
		r.src = rand.NewPCG(s.Seed, s.Seed)
		ctrl.SetSource(rand.NewPCG(s.Seed, s.Seed+1))
	}
	return r
}

func (r *Runner) Run(ctx context.Context) ([]EpisodeSummary, error) {
	summaries := []EpisodeSummary{}
	for episode := range r.Settings.Episodes {
		summary, err := r.RunEpisode(ctx, episode)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
		if r.OnEpisode != nil {
			r.OnEpisode(summary)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return summaries, nil
}

func (r *Runner) RunEpisode(ctx context.Context, episode int) (EpisodeSummary, error) {
	trackName := r.Env.Track().Name()
	summary := EpisodeSummary{Episode: episode, TrackName: trackName}

	_, info, err := r.Env.Reset(r.src, r.Settings.ResetOptions())
	if err != nil {
		return summary, errors.Wrapf(err, "could not reset episode %d", episode)
	}
	r.Controller.Reset()
	state := info.VehicleState

	for summary.Steps < r.Settings.MaxEpisodeSteps {
		if ctx.Err() != nil {
			break
		}

		act, _, err := r.Controller.Step(&state)
		if err != nil {
			return summary, errors.Wrap(err, "controller step failed")
		}
		res, err := r.Env.Step(env.Action{act.UA, act.USteer})
		if err != nil {
			return summary, errors.Wrap(err, "environment step failed")
		}
		summary.Steps++
		summary.Return += res.Reward
		if res.Terminated {
			summary.Laps++
		}

		r.publish(Frame{Episode: episode, TrackName: trackName, Result: res})

		if r.Settings.Realtime {
			r.sleep(time.Duration(r.Settings.DT * float64(time.Second)))
		}

		state = res.Info.VehicleState
		if res.Truncated {
			summary.Truncated = true
			break
		}
	}

	summary.Time = r.Env.Time()
	summary.PathLength = pathLength(r.Env.Buffers().Trajectory)
	summary.LastLapStart = r.Env.LapStart()
	slog.Info("Episode finished",
		"episode", episode,
		"track", trackName,
		"steps", summary.Steps,
		"laps", summary.Laps,
		"return", summary.Return,
		"path_length", summary.PathLength,
		"last_lap_start", summary.LastLapStart,
		"truncated", summary.Truncated,
	)
	return summary, nil
}

func (r *Runner) publish(frame Frame) {
	if r.Sink != nil {
		err := r.Sink.Publish(frame)
		if err != nil {
			slog.Warn("could not publish telemetry", "error", err)
		}
	}
	if r.Extended != nil {
		err := r.Extended.Send()
		if err != nil {
			slog.Warn("could not publish extended state", "error", err)
		}
	}
}
