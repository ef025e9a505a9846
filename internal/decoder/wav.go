package decoder

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/llehouerou/sdplay/internal/pcm"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// wavDecoder passes integer PCM through, converting depth and channel layout
// to the sink format. The data region size is fixed at open time.
type wavDecoder struct {
	dec          *wav.Decoder
	src          io.Reader
	info         Info
	sinkChannels int
	frameSamples int
	remaining    int64 // source samples (not frames) left in the data region
	buf          *audio.IntBuffer
	data         []int // backing array for buf.Data
	scratch      []int16
}

func openWAV(r io.ReadSeeker, sink pcm.Format, frameSamples int) (Decoder, error) {
	dec := wav.NewDecoder(fullReader{r})
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: %w", ErrMalformedHeader)
	}

	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)
	rate := int(dec.SampleRate)

	switch dec.WavAudioFormat {
	case wavFormatPCM, wavFormatExtensible:
	default:
		return nil, fmt.Errorf("wav: audio format %d: %w", dec.WavAudioFormat, ErrUnsupportedFormat)
	}
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("wav: %d-bit samples: %w", depth, ErrUnsupportedFormat)
	}
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("wav: %d channels: %w", channels, ErrUnsupportedFormat)
	}
	if rate != sink.SampleRate {
		return nil, fmt.Errorf("wav: %d Hz on a %d Hz sink: %w", rate, sink.SampleRate, ErrUnsupportedFormat)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("wav: data chunk: %w: %w", ErrMalformedHeader, err)
	}
	bytesPerSample := depth / 8
	if dec.PCMSize <= 0 || dec.PCMSize%(bytesPerSample*channels) != 0 {
		return nil, fmt.Errorf("wav: data chunk of %d bytes: %w", dec.PCMSize, ErrMalformedHeader)
	}

	total := int64(dec.PCMSize / bytesPerSample)
	data := make([]int, frameSamples*channels)
	return &wavDecoder{
		dec: dec,
		src: r,
		info: Info{
			Kind:        KindPCM,
			SampleRate:  rate,
			Channels:    channels,
			BitDepth:    depth,
			TotalFrames: total / int64(channels),
		},
		sinkChannels: sink.Channels,
		frameSamples: frameSamples,
		remaining:    total,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
			SourceBitDepth: depth,
		},
		data:    data,
		scratch: make([]int16, len(data)),
	}, nil
}

func (d *wavDecoder) Info() Info { return d.info }

// NextFrame reads exactly one frame's worth of samples from the data region.
func (d *wavDecoder) NextFrame(dst *pcm.Frame) error {
	if d.remaining <= 0 {
		return io.EOF
	}
	want := int64(len(d.data))
	if d.remaining < want {
		want = d.remaining
	}
	n := 0
	for int64(n) < want {
		d.buf.Data = d.data[n:want]
		got, err := d.dec.PCMBuffer(d.buf)
		if err != nil {
			d.remaining = 0
			return fmt.Errorf("wav: %w: %w", ErrCorruptFrame, err)
		}
		if got == 0 {
			break
		}
		n += got
	}
	// Keep whole sample frames only; a truncated region ends the stream.
	n -= n % d.info.Channels
	if n == 0 {
		d.remaining = 0
		return io.EOF
	}
	if int64(n) < want {
		d.remaining = 0
	} else {
		d.remaining -= int64(n)
	}

	src := d.scratch[:n]
	for i := range n {
		src[i] = to16(d.data[i], d.info.BitDepth)
	}
	dst.Samples = repack(dst.Samples, src, d.info.Channels, d.sinkChannels)
	return nil
}

func (d *wavDecoder) Close() error {
	d.remaining = 0
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
