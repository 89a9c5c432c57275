package cli

import (
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"pfeifer.dev/barc/env"
	ms "pfeifer.dev/barc/settings"
	"pfeifer.dev/barc/track"
)

func interactive() error {
	trackPrompt := promptui.Select{
		Label: "Select Track",
		Items: track.Names(),
	}
	_, trackName, err := trackPrompt.Run()
	if err != nil {
		return errors.Wrap(err, "track prompt failed")
	}

	spawnPrompt := promptui.Select{
		Label: "Select Spawning",
		Items: []string{string(env.SpawnFixed), string(env.SpawnRandom)},
	}
	_, spawning, err := spawnPrompt.Run()
	if err != nil {
		return errors.Wrap(err, "spawning prompt failed")
	}

	lapsPrompt := promptui.Prompt{
		Label:    "Maximum Laps",
		Default:  strconv.Itoa(ms.Settings.MaxLaps),
		Validate: validateLaps,
	}
	lapsStr, err := lapsPrompt.Run()
	if err != nil {
		return errors.Wrap(err, "laps prompt failed")
	}
	laps, _ := strconv.Atoi(lapsStr)

	ms.Settings.TrackName = trackName
	ms.Settings.Spawning = spawning
	ms.Settings.MaxLaps = laps
	ms.Settings.Save()
	return nil
}

func validateLaps(input string) error {
	laps, err := strconv.Atoi(input)
	if err != nil {
		return errors.New("laps must be a whole number")
	}
	if laps < 1 {
		return errors.New("laps must be at least 1")
	}
	return nil
}
