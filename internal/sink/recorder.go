package sink

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/llehouerou/sdplay/internal/pcm"
)

// Recorder is a headless sink that writes everything it pulls to a WAV
// stream, in real time.
type Recorder struct {
	clock *Clock
	enc   *wav.Encoder
	ibuf  *audio.IntBuffer
}

// NewRecorder returns a sink that encodes pulled frames into w. The WAV
// header is finalized by Close; w itself is left open.
func NewRecorder(w io.WriteSeeker, format pcm.Format, frameSamples int) *Recorder {
	r := &Recorder{
		enc: wav.NewEncoder(w, format.SampleRate, pcm.BitDepth, format.Channels, 1),
		ibuf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
			Data:           make([]int, format.FrameLen(frameSamples)),
			SourceBitDepth: pcm.BitDepth,
		},
	}
	r.clock = newClock(format, frameSamples, r.write)
	return r
}

func (r *Recorder) write(frame []int16) error {
	r.ibuf.Data = r.ibuf.Data[:len(frame)]
	for i, v := range frame {
		r.ibuf.Data[i] = int(v)
	}
	if err := r.enc.Write(r.ibuf); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}

// Start begins recording from p.
func (r *Recorder) Start(p Puller) error {
	return r.clock.Start(p)
}

// Latency is zero: frames are encoded as they are pulled.
func (r *Recorder) Latency() time.Duration {
	return 0
}

// Close stops recording and writes the final WAV header.
func (r *Recorder) Close() error {
	return errors.Join(r.clock.Close(), r.enc.Close())
}
