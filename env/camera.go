package env

import (
	"image"
	"log/slog"
	"time"

	"pfeifer.dev/barc/vehicle"
)

// Camera renders the view from a vehicle state.
type Camera interface {
	QueryRGB(state vehicle.State) (image.Image, error)
}

// Connector opens a new camera session for the named track.
type Connector func(trackName string) (Camera, error)

const DEFAULT_CAMERA_BACKOFF = 10 * time.Second

type cameraLink struct {
	camera  Camera
	connect Connector
	backoff time.Duration
}

// query blocks until an image is produced. A failed query drops the session
// and reconnects after a fixed backoff, forever.
func (c *cameraLink) query(state vehicle.State, trackName string) image.Image {
	for {
		img, err := c.camera.QueryRGB(state)
		if err == nil {
			return img
		}
		slog.Error("camera query failed", "error", err, "track", trackName)
		for {
			time.Sleep(c.backoff)
			cam, err := c.connect(trackName)
			if err != nil {
				slog.Error("camera reconnect failed", "error", err, "track", trackName)
				continue
			}
			c.camera = cam
			break
		}
	}
}
