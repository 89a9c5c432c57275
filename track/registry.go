package track

import (
	"sort"

	"github.com/pkg/errors"
	"pfeifer.dev/barc/utils"
)

const DEFAULT_TRACK = "barc_circle"

type entry struct {
	track utils.Curry[Track]
	build func() Track
}

var registry = map[string]*entry{
	"barc_circle": {build: func() Track {
		return NewCircle("barc_circle", 3.0, 0.55, 0.3)
	}},
	"barc_circle_wide": {build: func() Track {
		return NewCircle("barc_circle_wide", 4.5, 1.0, 0.3)
	}},
}

// Get returns the named track, building it on first use.
func Get(name string) (Track, error) {
	e, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown track %q", name)
	}
	return e.track.Value(e.build), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
