// Package tone synthesizes fixed-amplitude sine tones as sink-native frames.
package tone

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"

	"github.com/llehouerou/sdplay/internal/pcm"
)

// Amplitude is the peak level relative to full scale.
const Amplitude = 0.8

// ErrInvalidTone is returned for a non-positive duration or a frequency
// outside (0, Nyquist).
var ErrInvalidTone = errors.New("invalid tone")

// Tone is a finite sine wave. It holds no playback state; every call to
// Frames or Source starts from phase zero.
type Tone struct {
	freq       float64
	duration   time.Duration
	sampleRate int
	total      int
}

// Generate validates the parameters and returns the tone description.
func Generate(freqHz float64, duration time.Duration, sampleRate int) (*Tone, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate %d: %w", sampleRate, ErrInvalidTone)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration %s: %w", duration, ErrInvalidTone)
	}
	if freqHz <= 0 || freqHz >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("frequency %g Hz at %d Hz: %w", freqHz, sampleRate, ErrInvalidTone)
	}
	total := int(math.Round(duration.Seconds() * float64(sampleRate)))
	if total == 0 {
		return nil, fmt.Errorf("duration %s shorter than one sample: %w", duration, ErrInvalidTone)
	}
	return &Tone{freq: freqHz, duration: duration, sampleRate: sampleRate, total: total}, nil
}

// Frequency returns the tone frequency in Hz.
func (t *Tone) Frequency() float64 { return t.freq }

// Duration returns the requested duration.
func (t *Tone) Duration() time.Duration { return t.duration }

// Frames yields the tone as frames of frameSamples sample frames each; the
// last frame may be shorter.
func (t *Tone) Frames(frameSamples, channels int) iter.Seq[pcm.Frame] {
	return func(yield func(pcm.Frame) bool) {
		r := t.Source(frameSamples, channels)
		defer r.Close()
		for {
			var f pcm.Frame
			if err := r.NextFrame(&f); err != nil {
				return
			}
			if !yield(f) {
				return
			}
		}
	}
}

// Source returns a pull-style reader over a fresh pass of the tone.
func (t *Tone) Source(frameSamples, channels int) *Reader {
	// Generate already rejected frequencies at or above Nyquist.
	s, _ := generators.SineTone(beep.SampleRate(t.sampleRate), t.freq)
	return &Reader{
		streamer:  s,
		remaining: t.total,
		channels:  channels,
		buf:       make([][2]float64, frameSamples),
	}
}

// Reader produces tone frames on demand.
type Reader struct {
	streamer  beep.Streamer
	remaining int
	channels  int
	buf       [][2]float64
}

// NextFrame fills dst with the next frame, or returns io.EOF once the tone
// has been fully produced.
func (r *Reader) NextFrame(dst *pcm.Frame) error {
	if r.remaining <= 0 || r.streamer == nil {
		return io.EOF
	}
	n := min(len(r.buf), r.remaining)
	n, _ = r.streamer.Stream(r.buf[:n])
	if n == 0 {
		r.remaining = 0
		return io.EOF
	}
	r.remaining -= n

	dst.Samples = dst.Samples[:0]
	for _, s := range r.buf[:n] {
		v := quantize(s[0])
		for range r.channels {
			dst.Samples = append(dst.Samples, v)
		}
	}
	return nil
}

// Close ends the stream early.
func (r *Reader) Close() error {
	r.remaining = 0
	return nil
}

func quantize(v float64) int16 {
	return int16(math.Round(v * Amplitude * math.MaxInt16))
}
