package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	trk, err := Get(DEFAULT_TRACK)
	require.NoError(t, err)
	assert.Equal(t, DEFAULT_TRACK, trk.Name())
	assert.Equal(t, 0.55, trk.HalfWidth())

	again, err := Get(DEFAULT_TRACK)
	require.NoError(t, err)
	assert.Same(t, trk, again)
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("nurburgring")
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"barc_circle", "barc_circle_wide"}, Names())
}
