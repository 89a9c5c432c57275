package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"pfeifer.dev/barc/cereal"
	m "pfeifer.dev/barc/math"
	"pfeifer.dev/barc/track"
	"pfeifer.dev/barc/utils"
)

const SPEED_AVERAGE_LENGTH = 20

type telemetryModel struct {
	output    cereal.Telemetry
	valid     bool
	trackName string
	length    float64
	speed     m.MovingAverage
	rate      utils.UpdateTracker
	lap       utils.Tracker[uint32]
	lastLap   float64
	bar       progress.Model
}

func newTelemetryModel() telemetryModel {
	t := telemetryModel{bar: newProgressBar()}
	t.speed.Init(SPEED_AVERAGE_LENGTH)
	t.rate.Init(SPEED_AVERAGE_LENGTH)
	return t
}

func (t telemetryModel) update(out cereal.Telemetry) telemetryModel {
	if t.lap.Update(out.LapNo()) && t.valid && out.LapNo() > t.lap.LastValue {
		t.lastLap = t.output.LapTime()
	}
	t.output = out
	t.valid = true
	t.rate.Update()

	name, err := out.TrackName()
	utils.Logde(err)
	if name != t.trackName {
		t.trackName = name
		t.length = 0
		t.lastLap = 0
		t.speed.Reset()
		if trk, err := track.Get(name); err == nil {
			t.length = trk.Length()
		}
	}

	state := out.State()
	t.speed.Update(state.Speed())
	return t
}

// lapProgress is the fraction of the current lap driven so far.
func (t telemetryModel) lapProgress() float64 {
	if t.length <= 0 {
		return 0
	}
	return m.Clamp(t.output.S()/t.length, 0, 1)
}

func (t telemetryModel) View() string {
	if !t.valid {
		return docStyle.Render(dimStyle.Render("waiting for telemetry, start barc with --telemetry"))
	}
	b := strings.Builder{}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  episode %d  lap %d", t.trackName, t.output.Episode(), t.output.LapNo())))
	b.WriteString("\n\n")
	b.WriteString(t.bar.ViewAs(t.lapProgress()))
	b.WriteString("\n\n")
	b.WriteString(formatTelemetry(t.output, t.speed.Estimate, t.rate.Rate()))
	if t.lastLap > 0 {
		b.WriteString(fmt.Sprintf("\nlast lap: %.1f s", t.lastLap))
	}
	if t.output.Truncated() {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("episode truncated"))
	}
	return docStyle.Render(b.String())
}

func formatTelemetry(out cereal.Telemetry, avgSpeed, rate float64) string {
	return fmt.Sprintf(
		"t: %.2f s\nx: %.3f  y: %.3f  psi: %.3f\ns: %.3f  x_tran: %.3f  e_psi: %.3f\nv_long: %.3f  v_tran: %.3f  w_psi: %.3f\nu_a: %.3f  u_steer: %.3f\nreward: %.4f\nlap time: %.1f s  avg_v: %.3f  max_v: %.3f  min_v: %.3f\nsmoothed speed: %.3f\nupdate rate: %.1f Hz",
		out.T(),
		out.X(), out.Y(), out.Psi(),
		out.S(), out.XTran(), out.EPsi(),
		out.VLong(), out.VTran(), out.WPsi(),
		out.UA(), out.USteer(),
		out.Reward(),
		out.LapTime(), out.AvgLapSpeed(), out.MaxLapSpeed(), out.MinLapSpeed(),
		avgSpeed,
		rate,
	)
}
