package cereal

import (
	"math"

	"capnproto.org/go/capnp/v3"
	"pfeifer.dev/barc/vehicle"
)

// Accessors for the structs in barc.capnp. The layout constants below are
// checked against the schema by TestSchemaLayout.

const (
	TELEMETRY_QUEUE = "barcOut"
	EXTENDED_QUEUE  = "barcExtendedOut"
)

const (
	telemetryT capnp.DataOffset = 8 * iota
	telemetryX
	telemetryY
	telemetryPsi
	telemetryS
	telemetryXTran
	telemetryEPsi
	telemetryVLong
	telemetryVTran
	telemetryWPsi
	telemetryUA
	telemetryUSteer
	telemetryReward
	telemetryAvgLapSpeed
	telemetryMaxLapSpeed
	telemetryMinLapSpeed
	telemetryLapTime
	telemetryLapNo
)

const (
	telemetryEpisode    capnp.DataOffset = 140
	telemetryMonoTime   capnp.DataOffset = 152
	telemetryTerminated capnp.BitOffset  = 1152
	telemetryTruncated  capnp.BitOffset  = 1153
	telemetryTrackName                   = 0

	extendedMonoTime capnp.DataOffset = 0
	extendedSettings                  = 0
)

var (
	telemetrySize = capnp.ObjectSize{DataSize: 160, PointerCount: 1}
	extendedSize  = capnp.ObjectSize{DataSize: 8, PointerCount: 1}
)

type Telemetry capnp.Struct

func NewRootTelemetry(s *capnp.Segment) (Telemetry, error) {
	st, err := capnp.NewRootStruct(s, telemetrySize)
	return Telemetry(st), err
}

func ReadRootTelemetry(msg *capnp.Message) (Telemetry, error) {
	root, err := msg.Root()
	return Telemetry(root.Struct()), err
}

func (s Telemetry) float(off capnp.DataOffset) float64 {
	return math.Float64frombits(capnp.Struct(s).Uint64(off))
}

func (s Telemetry) setFloat(off capnp.DataOffset, v float64) {
	capnp.Struct(s).SetUint64(off, math.Float64bits(v))
}

func (s Telemetry) T() float64               { return s.float(telemetryT) }
func (s Telemetry) SetT(v float64)           { s.setFloat(telemetryT, v) }
func (s Telemetry) X() float64               { return s.float(telemetryX) }
func (s Telemetry) SetX(v float64)           { s.setFloat(telemetryX, v) }
func (s Telemetry) Y() float64               { return s.float(telemetryY) }
func (s Telemetry) SetY(v float64)           { s.setFloat(telemetryY, v) }
func (s Telemetry) Psi() float64             { return s.float(telemetryPsi) }
func (s Telemetry) SetPsi(v float64)         { s.setFloat(telemetryPsi, v) }
func (s Telemetry) S() float64               { return s.float(telemetryS) }
func (s Telemetry) SetS(v float64)           { s.setFloat(telemetryS, v) }
func (s Telemetry) XTran() float64           { return s.float(telemetryXTran) }
func (s Telemetry) SetXTran(v float64)       { s.setFloat(telemetryXTran, v) }
func (s Telemetry) EPsi() float64            { return s.float(telemetryEPsi) }
func (s Telemetry) SetEPsi(v float64)        { s.setFloat(telemetryEPsi, v) }
func (s Telemetry) VLong() float64           { return s.float(telemetryVLong) }
func (s Telemetry) SetVLong(v float64)       { s.setFloat(telemetryVLong, v) }
func (s Telemetry) VTran() float64           { return s.float(telemetryVTran) }
func (s Telemetry) SetVTran(v float64)       { s.setFloat(telemetryVTran, v) }
func (s Telemetry) WPsi() float64            { return s.float(telemetryWPsi) }
func (s Telemetry) SetWPsi(v float64)        { s.setFloat(telemetryWPsi, v) }
func (s Telemetry) UA() float64              { return s.float(telemetryUA) }
func (s Telemetry) SetUA(v float64)          { s.setFloat(telemetryUA, v) }
func (s Telemetry) USteer() float64          { return s.float(telemetryUSteer) }
func (s Telemetry) SetUSteer(v float64)      { s.setFloat(telemetryUSteer, v) }
func (s Telemetry) Reward() float64          { return s.float(telemetryReward) }
func (s Telemetry) SetReward(v float64)      { s.setFloat(telemetryReward, v) }
func (s Telemetry) AvgLapSpeed() float64     { return s.float(telemetryAvgLapSpeed) }
func (s Telemetry) SetAvgLapSpeed(v float64) { s.setFloat(telemetryAvgLapSpeed, v) }
func (s Telemetry) MaxLapSpeed() float64     { return s.float(telemetryMaxLapSpeed) }
func (s Telemetry) SetMaxLapSpeed(v float64) { s.setFloat(telemetryMaxLapSpeed, v) }
func (s Telemetry) MinLapSpeed() float64     { return s.float(telemetryMinLapSpeed) }
func (s Telemetry) SetMinLapSpeed(v float64) { s.setFloat(telemetryMinLapSpeed, v) }
func (s Telemetry) LapTime() float64         { return s.float(telemetryLapTime) }
func (s Telemetry) SetLapTime(v float64)     { s.setFloat(telemetryLapTime, v) }

func (s Telemetry) LapNo() uint32 {
	return capnp.Struct(s).Uint32(telemetryLapNo)
}

func (s Telemetry) SetLapNo(v uint32) {
	capnp.Struct(s).SetUint32(telemetryLapNo, v)
}

func (s Telemetry) Episode() uint32 {
	return capnp.Struct(s).Uint32(telemetryEpisode)
}

func (s Telemetry) SetEpisode(v uint32) {
	capnp.Struct(s).SetUint32(telemetryEpisode, v)
}

func (s Telemetry) Terminated() bool {
	return capnp.Struct(s).Bit(telemetryTerminated)
}

func (s Telemetry) SetTerminated(v bool) {
	capnp.Struct(s).SetBit(telemetryTerminated, v)
}

func (s Telemetry) Truncated() bool {
	return capnp.Struct(s).Bit(telemetryTruncated)
}

func (s Telemetry) SetTruncated(v bool) {
	capnp.Struct(s).SetBit(telemetryTruncated, v)
}

func (s Telemetry) TrackName() (string, error) {
	p, err := capnp.Struct(s).Ptr(telemetryTrackName)
	return p.Text(), err
}

func (s Telemetry) SetTrackName(v string) error {
	return capnp.Struct(s).SetText(telemetryTrackName, v)
}

func (s Telemetry) MonoTime() uint64 {
	return capnp.Struct(s).Uint64(telemetryMonoTime)
}

func (s Telemetry) SetMonoTime(v uint64) {
	capnp.Struct(s).SetUint64(telemetryMonoTime, v)
}

// SetState copies every state group into the message.
func (s Telemetry) SetState(state vehicle.State) {
	s.SetT(state.T)
	s.SetX(state.Pose.X)
	s.SetY(state.Pose.Y)
	s.SetPsi(state.Pose.Psi)
	s.SetS(state.Param.S)
	s.SetXTran(state.Param.XTran)
	s.SetEPsi(state.Param.EPsi)
	s.SetVLong(state.Vel.VLong)
	s.SetVTran(state.Vel.VTran)
	s.SetWPsi(state.Vel.WPsi)
	s.SetUA(state.Act.UA)
	s.SetUSteer(state.Act.USteer)
}

// State rebuilds the vehicle state carried by the message.
func (s Telemetry) State() vehicle.State {
	return vehicle.State{
		T:     s.T(),
		Pose:  vehicle.Pose{X: s.X(), Y: s.Y(), Psi: s.Psi()},
		Param: vehicle.ParametricPose{S: s.S(), XTran: s.XTran(), EPsi: s.EPsi()},
		Vel:   vehicle.BodyVelocity{VLong: s.VLong(), VTran: s.VTran(), WPsi: s.WPsi()},
		Act:   vehicle.Actuation{UA: s.UA(), USteer: s.USteer()},
		Frame: vehicle.FrameBoth,
	}
}

type ExtendedOut capnp.Struct

func NewRootExtendedOut(s *capnp.Segment) (ExtendedOut, error) {
	st, err := capnp.NewRootStruct(s, extendedSize)
	return ExtendedOut(st), err
}

func ReadRootExtendedOut(msg *capnp.Message) (ExtendedOut, error) {
	root, err := msg.Root()
	return ExtendedOut(root.Struct()), err
}

func (s ExtendedOut) MonoTime() uint64 {
	return capnp.Struct(s).Uint64(extendedMonoTime)
}

func (s ExtendedOut) SetMonoTime(v uint64) {
	capnp.Struct(s).SetUint64(extendedMonoTime, v)
}

func (s ExtendedOut) Settings() (string, error) {
	p, err := capnp.Struct(s).Ptr(extendedSettings)
	return p.Text(), err
}

func (s ExtendedOut) SetSettings(v string) error {
	return capnp.Struct(s).SetText(extendedSettings, v)
}
