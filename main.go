package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"

	"pfeifer.dev/barc/cereal"
	"pfeifer.dev/barc/cli"
	"pfeifer.dev/barc/controller"
	"pfeifer.dev/barc/dynamics"
	"pfeifer.dev/barc/env"
	"pfeifer.dev/barc/params"
	ms "pfeifer.dev/barc/settings"
	"pfeifer.dev/barc/track"
	"pfeifer.dev/barc/utils"
)

func main() {
	params.EnsureParamDirectories()
	ms.Settings.LoadWithRetries(ms.LOAD_RETRIES)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Handle(ctx, os.Args, run, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	s := ms.Settings
	trk, err := track.Get(s.TrackName)
	if err != nil {
		return err
	}

	e := env.New(s.EnvConfig(), trk, dynamics.NewKinematicBicycle(s.BicycleConfig(), trk))
	ctrl := controller.NewPIDWrapper(s.WrapperConfig(), trk)
	runner := NewRunner(e, ctrl, s)
	runner.OnEpisode = saveSummary

	if s.Telemetry {
		pub, err := cereal.NewTelemetryPublisher()
		if err != nil {
			return err
		}
		runner.Sink = &cerealSink{pub: pub}

		extPub, err := cereal.NewExtendedOutPublisher()
		if err != nil {
			return err
		}
		runner.Extended = &ExtendedState{Pub: extPub}
	}

	_, err = runner.Run(ctx)
	return err
}

func saveSummary(summary EpisodeSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		utils.Loge(err)
		return
	}
	utils.Logwe(params.PutParam(params.LAST_EPISODE, data))
}
