package cereal

import (
	"time"
)

var start = time.Now()

// GetTime is the monotonic time since process start in nanoseconds.
func GetTime() uint64 {
	return uint64(time.Since(start).Nanoseconds())
}

func NewTelemetryPublisher() (Publisher[Telemetry], error) {
	return NewPublisher(TELEMETRY_QUEUE, NewRootTelemetry)
}

func NewTelemetrySubscriber() (Subscriber[Telemetry], error) {
	return NewSubscriber(TELEMETRY_QUEUE, ReadRootTelemetry, true)
}

func NewExtendedOutPublisher() (Publisher[ExtendedOut], error) {
	return NewPublisher(EXTENDED_QUEUE, NewRootExtendedOut)
}

func NewExtendedOutSubscriber() (Subscriber[ExtendedOut], error) {
	return NewSubscriber(EXTENDED_QUEUE, ReadRootExtendedOut, true)
}
