//go:build !((linux && cgo) || windows || darwin)

package sink

import (
	"time"

	"github.com/llehouerou/sdplay/internal/pcm"
)

// Speaker is unavailable on this build.
type Speaker struct{}

// NewSpeaker returns a sink whose Start reports ErrUnavailable.
func NewSpeaker(pcm.Format, int) *Speaker { return &Speaker{} }

// Start always fails.
func (*Speaker) Start(Puller) error { return ErrUnavailable }

// Latency is zero.
func (*Speaker) Latency() time.Duration { return 0 }

// Close does nothing.
func (*Speaker) Close() error { return nil }

// Oto is unavailable on this build.
type Oto struct{}

// NewOto returns a sink whose Start reports ErrUnavailable.
func NewOto(pcm.Format, int) *Oto { return &Oto{} }

// Start always fails.
func (*Oto) Start(Puller) error { return ErrUnavailable }

// Latency is zero.
func (*Oto) Latency() time.Duration { return 0 }

// Close does nothing.
func (*Oto) Close() error { return nil }
