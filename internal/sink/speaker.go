//go:build (linux && cgo) || windows || darwin

package sink

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/sdplay/internal/pcm"
)

// Speaker plays through beep's speaker package.
type Speaker struct {
	format       pcm.Format
	frameSamples int

	mu      sync.Mutex
	started bool
}

// NewSpeaker returns a speaker sink. The device is opened by Start.
func NewSpeaker(format pcm.Format, frameSamples int) *Speaker {
	return &Speaker{format: format, frameSamples: frameSamples}
}

// Start opens the device with a buffer of two frames and streams from p.
func (s *Speaker) Start(p Puller) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrStarted
	}
	sr := beep.SampleRate(s.format.SampleRate)
	if err := speaker.Init(sr, 2*s.frameSamples); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	speaker.Play(newStreamer(p, s.format.Channels, s.format.FrameLen(s.frameSamples)))
	s.started = true
	return nil
}

// Latency returns the device buffer length.
func (s *Speaker) Latency() time.Duration {
	return 2 * s.format.FrameDuration(s.frameSamples)
}

// Close stops playback and releases the device.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	s.started = false
	return nil
}
