// Package pcm holds the sink-native sample format, the PCM frame exchanged
// between decoders and sinks, and the slot buffer that sits between them.
package pcm

import (
	"errors"
	"fmt"
	"time"
)

// BitDepth is the only sample depth the sink accepts: 16-bit signed.
const BitDepth = 16

const (
	minSampleRate = 8000
	maxSampleRate = 192000
)

// ErrInvalidFormat is returned when a sink format is out of range.
var ErrInvalidFormat = errors.New("invalid sink format")

// Format is the negotiated sink format, fixed at sink configuration time.
type Format struct {
	SampleRate int
	Channels   int
}

// Validate checks that the format is something a sink can be configured with.
func (f Format) Validate() error {
	if f.SampleRate < minSampleRate || f.SampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("%w: %d channels", ErrInvalidFormat, f.Channels)
	}
	return nil
}

// FrameLen returns the number of int16 values in a full frame of
// frameSamples sample frames.
func (f Format) FrameLen(frameSamples int) int {
	return frameSamples * f.Channels
}

// FrameDuration returns how long the sink takes to play one full frame.
func (f Format) FrameDuration(frameSamples int) time.Duration {
	if f.SampleRate == 0 {
		return 0
	}
	return time.Duration(frameSamples) * time.Second / time.Duration(f.SampleRate)
}

// Frame is one block of interleaved 16-bit samples.
// All frames of a stream are the same length except possibly the last one.
type Frame struct {
	Samples []int16
}

// NewFrame allocates a frame able to hold frameSamples sample frames.
func NewFrame(f Format, frameSamples int) Frame {
	return Frame{Samples: make([]int16, 0, f.FrameLen(frameSamples))}
}

// Len returns the number of sample frames held for the given channel count.
func (fr Frame) Len(channels int) int {
	if channels <= 0 {
		return 0
	}
	return len(fr.Samples) / channels
}

// Reset empties the frame while keeping its storage.
func (fr *Frame) Reset() {
	fr.Samples = fr.Samples[:0]
}
