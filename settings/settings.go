package settings

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"pfeifer.dev/barc/controller"
	"pfeifer.dev/barc/dynamics"
	"pfeifer.dev/barc/env"
	"pfeifer.dev/barc/params"
	"pfeifer.dev/barc/track"
	"pfeifer.dev/barc/utils"
)

var (
	Settings = BarcSettings{}
)

type BarcSettings struct {
	TrackName         string  `json:"track_name"`
	DT                float64 `json:"dt"`
	DTSim             float64 `json:"dt_sim"`
	MaxLaps           int     `json:"max_laps"`
	MaxEpisodeSteps   int     `json:"max_episode_steps"`
	Episodes          int     `json:"episodes"`
	Spawning          string  `json:"spawning"`
	Seed              uint64  `json:"seed"`
	LogLevel          string  `json:"log_level"`
	Realtime          bool    `json:"realtime"`
	Telemetry         bool    `json:"telemetry"`
	EnforceRateLimits bool    `json:"enforce_rate_limits"`
	TargetSpeed       float64 `json:"target_speed"`
	SteerKp           float64 `json:"steer_kp"`
	SpeedKp           float64 `json:"speed_kp"`
	Noise             bool    `json:"noise"`
}

func (s *BarcSettings) Default() {
	s.TrackName = track.DEFAULT_TRACK
	s.DT = 0.1
	s.DTSim = 0.01
	s.MaxLaps = 100
	s.MaxEpisodeSteps = 5000
	s.Episodes = 1
	s.Spawning = string(env.SpawnFixed)
	s.Seed = 0
	s.LogLevel = "info"
	s.Realtime = false
	s.Telemetry = false
	s.EnforceRateLimits = false
	s.TargetSpeed = 1.0
	s.SteerKp = 0.5
	s.SpeedKp = 1.5
	s.Noise = false
}

// Unmarshal overlays data on top of the defaults.
func (s *BarcSettings) Unmarshal(data []byte) error {
	s.Default()
	err := json.Unmarshal(data, s)
	if err != nil {
		return errors.Wrap(err, "could not parse settings")
	}
	return nil
}

func (s *BarcSettings) Load() (success bool) {
	s.Default() // set defaults so settings not already in param are defaulted
	data, err := params.GetParam(params.BARC_SETTINGS)
	if err != nil {
		utils.Logde(err)
		return false
	}

	err = s.Unmarshal(data)
	if err != nil {
		utils.Loge(err)
		return false
	}

	s.setLogLevel()

	return true
}

func (s *BarcSettings) LoadWithRetries(tries int) {
	for range tries {
		if s.Load() {
			return
		}
		time.Sleep(1 * time.Second)
	}
	s.setLogLevel()
	s.Save()
}

func (s *BarcSettings) Save() {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		utils.Loge(err)
		return
	}
	params.EnsureParamDirectories()
	err = params.PutParam(params.BARC_SETTINGS, data)
	if err != nil {
		utils.Loge(err)
		return
	}
}

func (s *BarcSettings) setLogLevel() {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "info":
		slog.SetLogLoggerLevel(slog.LevelInfo)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}
}

func (s *BarcSettings) EnvConfig() env.Config {
	cfg := env.DefaultConfig()
	cfg.DT = s.DT
	cfg.MaxLaps = s.MaxLaps
	return cfg
}

func (s *BarcSettings) BicycleConfig() dynamics.BicycleConfig {
	cfg := dynamics.DefaultBicycleConfig()
	cfg.DT = s.DTSim
	return cfg
}

func (s *BarcSettings) WrapperConfig() controller.WrapperConfig {
	cfg := controller.DefaultWrapperConfig()
	cfg.DT = s.DT
	cfg.EnforceRateLimits = s.EnforceRateLimits
	cfg.TargetSpeed = s.TargetSpeed
	cfg.SteerKp = s.SteerKp
	cfg.SpeedKp = s.SpeedKp
	cfg.Noise = s.Noise
	return cfg
}

func (s *BarcSettings) ResetOptions() env.ResetOptions {
	return env.ResetOptions{Spawning: env.Spawning(s.Spawning)}
}
