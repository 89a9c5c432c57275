package main

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"pfeifer.dev/barc/cereal"
	ms "pfeifer.dev/barc/settings"
)

type cerealSink struct {
	pub cereal.Publisher[cereal.Telemetry]
}

func (c *cerealSink) Publish(frame Frame) error {
	msg, out, err := c.pub.NewMessage()
	if err != nil {
		return err
	}
	err = fillTelemetry(out, frame)
	if err != nil {
		return err
	}
	return c.pub.Send(msg)
}

func fillTelemetry(out cereal.Telemetry, frame Frame) error {
	res := frame.Result
	out.SetMonoTime(cereal.GetTime())
	out.SetState(res.Info.VehicleState)
	out.SetReward(res.Reward)
	out.SetAvgLapSpeed(res.Info.AvgLapSpeed)
	out.SetMaxLapSpeed(res.Info.MaxLapSpeed)
	out.SetMinLapSpeed(res.Info.MinLapSpeed)
	out.SetLapTime(res.Info.LapTime)
	out.SetLapNo(uint32(res.Info.LapNo))
	out.SetEpisode(uint32(frame.Episode))
	out.SetTerminated(res.Terminated)
	out.SetTruncated(res.Truncated)
	return errors.Wrap(out.SetTrackName(frame.TrackName), "could not set track name")
}

type ExtendedState struct {
	Pub      cereal.Publisher[cereal.ExtendedOut]
	lastSend time.Time
}

// Send publishes the running settings at most once per EXTENDED_OUT_PERIOD.
func (s *ExtendedState) Send() error {
	if time.Since(s.lastSend) > ms.EXTENDED_OUT_PERIOD {
		s.lastSend = time.Now()
		msg, out, err := s.Pub.NewMessage()
		if err != nil {
			return err
		}
		err = setSettings(out, ms.Settings)
		if err != nil {
			return err
		}
		return s.Pub.Send(msg)
	}
	return nil
}

func setSettings(out cereal.ExtendedOut, s ms.BarcSettings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "could not marshal settings for extended state")
	}
	out.SetMonoTime(cereal.GetTime())
	return errors.Wrap(out.SetSettings(string(b)), "could not set settings in extended state")
}
