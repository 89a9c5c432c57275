package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"pfeifer.dev/barc/env"
	"pfeifer.dev/barc/params"
	ms "pfeifer.dev/barc/settings"
	"pfeifer.dev/barc/track"
)

// Runner executes the episode loop with the current ms.Settings.
type Runner func(ctx context.Context) error

func Handle(ctx context.Context, args []string, run Runner, out io.Writer) error {
	cmd := &cli.Command{
		Name:   "barc",
		Usage:  "Run closed loop laps of a vehicle around a track",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Category: "Episode",
				Name:     "track",
				Aliases:  []string{"t"},
				Usage:    "Name of the track to drive, see 'barc tracks'",
			},
			&cli.IntFlag{
				Category: "Episode",
				Name:     "episodes",
				Aliases:  []string{"n"},
				Usage:    "Number of episodes to run",
			},
			&cli.IntFlag{
				Category: "Episode",
				Name:     "laps",
				Usage:    "Maximum number of laps per episode",
			},
			&cli.Uint64Flag{
				Category: "Episode",
				Name:     "seed",
				Usage:    "Seed for random spawning, 0 seeds from the clock",
			},
			&cli.StringFlag{
				Category: "Episode",
				Name:     "spawning",
				Usage:    "Spawn strategy, 'fixed' or 'random'",
			},
			&cli.BoolFlag{
				Category: "Output",
				Name:     "realtime",
				Usage:    "Pace the simulation to wall clock time",
			},
			&cli.BoolFlag{
				Category: "Output",
				Name:     "telemetry",
				Usage:    "Publish telemetry for 'barc watch'",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Watch the live telemetry of a running barc instance",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return watch()
				},
			},
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Choose the track, spawning and lap limit and save them",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return interactive()
				},
			},
			{
				Name:  "tracks",
				Usage: "List the available tracks",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return listTracks(cmd.Root().Writer)
				},
			},
			{
				Name:  "defaults",
				Usage: "Reset the saved settings to their defaults",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return resetDefaults()
				},
			},
			{
				Name:      "params",
				Usage:     "Print the stored params, all of them when no name is given",
				ArgsUsage: "[name...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return showParams(cmd.Root().Writer, cmd.Args().Slice())
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			err := applyFlags(cmd, &ms.Settings)
			if err != nil {
				return err
			}
			return run(ctx)
		},
	}

	return cmd.Run(ctx, args)
}

// applyFlags overrides the loaded settings with the flags given on the
// command line.
func applyFlags(cmd *cli.Command, s *ms.BarcSettings) error {
	if cmd.IsSet("track") {
		s.TrackName = cmd.String("track")
	}
	if _, err := track.Get(s.TrackName); err != nil {
		return err
	}
	if cmd.IsSet("episodes") {
		s.Episodes = cmd.Int("episodes")
	}
	if cmd.IsSet("laps") {
		s.MaxLaps = cmd.Int("laps")
	}
	if cmd.IsSet("seed") {
		s.Seed = cmd.Uint64("seed")
	}
	if cmd.IsSet("spawning") {
		s.Spawning = cmd.String("spawning")
	}
	switch env.Spawning(s.Spawning) {
	case env.SpawnFixed, env.SpawnRandom:
	default:
		return errors.Errorf("unknown spawning %q", s.Spawning)
	}
	if cmd.IsSet("realtime") {
		s.Realtime = cmd.Bool("realtime")
	}
	if cmd.IsSet("telemetry") {
		s.Telemetry = cmd.Bool("telemetry")
	}
	return nil
}

func listTracks(out io.Writer) error {
	for _, name := range track.Names() {
		trk, err := track.Get(name)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\tlength %.3f m\thalf width %.2f m\n", name, trk.Length(), trk.HalfWidth())
		if err != nil {
			return errors.Wrap(err, "could not write track list")
		}
	}
	return nil
}

// resetDefaults stores the default settings and forgets the last episode.
func resetDefaults() error {
	ms.Settings.Default()
	ms.Settings.Save()
	return params.RemoveParam(params.LAST_EPISODE)
}

func showParams(out io.Writer, names []string) error {
	if len(names) == 0 {
		var err error
		names, err = params.GetParams()
		if err != nil {
			return err
		}
	}

	for _, name := range names {
		exists, err := params.Exists(params.ParamPath(name))
		if err != nil {
			return err
		}
		if !exists {
			_, err = fmt.Fprintf(out, "%s: not set\n", name)
			if err != nil {
				return errors.Wrap(err, "could not write params")
			}
			continue
		}

		data, err := params.GetParam(name)
		if err != nil {
			return err
		}
		value := fmt.Sprintf("<%d bytes>", len(data))
		if params.IsString(data) {
			value = strings.TrimRight(string(data), "\n")
		}
		_, err = fmt.Fprintf(out, "%s: %s\n", name, value)
		if err != nil {
			return errors.Wrap(err, "could not write params")
		}
	}
	return nil
}
