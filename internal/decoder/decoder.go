// Package decoder turns an open byte stream into a sequence of sink-native
// PCM frames. Two variants exist: PCM passthrough for WAV files and MP3.
package decoder

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/llehouerou/sdplay/internal/pcm"
)

const (
	extWAV = ".wav"
	extMP3 = ".mp3"
)

var (
	// ErrMalformedHeader means the stream header could not be parsed.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrUnsupportedFormat means the header is valid but describes audio the
	// sink cannot play (bit depth, channel layout or sample rate).
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrCorruptFrame means a frame could not be decoded mid-stream.
	ErrCorruptFrame = errors.New("corrupt frame")
)

// Kind tags the container format of a track.
type Kind int

const (
	KindUnknown Kind = iota
	KindPCM
	KindMP3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPCM:
		return "WAV"
	case KindMP3:
		return "MP3"
	case KindUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// KindFromPath detects the kind from the file extension.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case extWAV:
		return KindPCM
	case extMP3:
		return KindMP3
	default:
		return KindUnknown
	}
}

// IsAudioFile reports whether path has a playable extension.
func IsAudioFile(path string) bool {
	return KindFromPath(path) != KindUnknown
}

// Info describes the source stream as found in its header.
type Info struct {
	Kind        Kind
	SampleRate  int
	Channels    int
	BitDepth    int
	TotalFrames int64 // sample frames declared by the stream, 0 if unknown
}

// Duration returns the declared length of the stream.
func (i Info) Duration() time.Duration {
	if i.SampleRate == 0 {
		return 0
	}
	return time.Duration(i.TotalFrames) * time.Second / time.Duration(i.SampleRate)
}

// Decoder yields sink-native frames from one open stream.
type Decoder interface {
	Info() Info
	// NextFrame fills dst with the next frame. It returns io.EOF once the
	// stream is exhausted, including after an unrecoverable corrupt frame.
	NextFrame(dst *pcm.Frame) error
	Close() error
}

// Open validates the stream header and returns the matching decoder.
// frameSamples is the number of sample frames per emitted PCM frame.
// The decoder takes ownership of r and closes it if it is an io.Closer.
func Open(r io.ReadSeeker, kind Kind, sink pcm.Format, frameSamples int) (Decoder, error) {
	if frameSamples <= 0 {
		return nil, fmt.Errorf("frame size %d: %w", frameSamples, ErrUnsupportedFormat)
	}
	var (
		d   Decoder
		err error
	)
	switch kind {
	case KindPCM:
		d, err = openWAV(r, sink, frameSamples)
	case KindMP3:
		d, err = openMP3(r, sink, frameSamples)
	case KindUnknown:
		err = fmt.Errorf("kind %s: %w", kind, ErrUnsupportedFormat)
	default:
		err = fmt.Errorf("kind %d: %w", int(kind), ErrUnsupportedFormat)
	}
	if err != nil {
		closeReader(r)
		return nil, err
	}
	return d, nil
}

func closeReader(r io.Reader) {
	if c, ok := r.(io.Closer); ok {
		_ = c.Close()
	}
}
