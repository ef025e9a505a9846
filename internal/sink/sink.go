// Package sink drives audio output devices from a Puller. Every backend
// asks for one frame at a time and never waits on the producer.
package sink

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/llehouerou/sdplay/internal/pcm"
)

// Backend names accepted by New.
const (
	BackendNull    = "null"
	BackendSpeaker = "speaker"
	BackendOto     = "oto"
)

var (
	// ErrUnavailable is returned when a hardware backend is not compiled in
	// or the device cannot be opened.
	ErrUnavailable = errors.New("audio output unavailable")
	// ErrUnknownBackend is returned by New for a name it does not know.
	ErrUnknownBackend = errors.New("unknown audio backend")
	// ErrStarted is returned when Start is called twice.
	ErrStarted = errors.New("sink already started")
)

// Puller fills dst with the next frame of audio, padding with silence.
// Implementations must not block.
type Puller interface {
	Pull(dst []int16)
}

// Sink consumes frames from a Puller at the device's pace. Latency is how
// much already-pulled audio the device may still be holding.
type Sink interface {
	Start(p Puller) error
	Latency() time.Duration
	Close() error
}

// Backends lists the backend names New understands.
func Backends() []string {
	return []string{BackendSpeaker, BackendOto, BackendNull}
}

// New returns the sink for backend. Hardware backends report
// ErrUnavailable from Start when they cannot be used on this build.
func New(backend string, format pcm.Format, frameSamples int) (Sink, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if frameSamples <= 0 {
		return nil, fmt.Errorf("sink: %d samples per frame", frameSamples)
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendSpeaker, "":
		return NewSpeaker(format, frameSamples), nil
	case BackendOto:
		return NewOto(format, frameSamples), nil
	case BackendNull:
		return NewClock(format, frameSamples), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
