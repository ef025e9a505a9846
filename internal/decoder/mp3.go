package decoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/llehouerou/go-mp3"

	"github.com/llehouerou/sdplay/internal/pcm"
)

// go-mp3 always emits interleaved 16-bit little-endian stereo.
const (
	mp3Channels       = 2
	mp3BytesPerSample = 2
	mp3BytesPerFrame  = mp3Channels * mp3BytesPerSample
)

// mp3Decoder keeps the go-mp3 bitstream and synthesis state across calls.
// Once exhausted it cannot be rewound; reopen the track to replay it.
type mp3Decoder struct {
	decoder      *mp3.Decoder
	src          io.Reader
	info         Info
	sinkChannels int
	readBuf      []byte
	scratch      []int16
	done         bool
}

func openMP3(r io.ReadSeeker, sink pcm.Format, frameSamples int) (Decoder, error) {
	if err := skipID3v2(r); err != nil {
		return nil, fmt.Errorf("mp3: id3 tag: %w: %w", ErrMalformedHeader, err)
	}

	decoder, err := mp3.NewDecoder(fullReader{r})
	if err != nil {
		return nil, fmt.Errorf("mp3: %w: %w", ErrMalformedHeader, err)
	}

	rate := decoder.SampleRate()
	if rate == 0 {
		return nil, fmt.Errorf("mp3: zero sample rate: %w", ErrMalformedHeader)
	}
	if rate != sink.SampleRate {
		return nil, fmt.Errorf("mp3: %d Hz on a %d Hz sink: %w", rate, sink.SampleRate, ErrUnsupportedFormat)
	}

	total := decoder.SampleCount()
	if total < 0 {
		total = 0
	}

	return &mp3Decoder{
		decoder: decoder,
		src:     r,
		info: Info{
			Kind:        KindMP3,
			SampleRate:  rate,
			Channels:    mp3Channels,
			BitDepth:    pcm.BitDepth,
			TotalFrames: int64(total),
		},
		sinkChannels: sink.Channels,
		readBuf:      make([]byte, frameSamples*mp3BytesPerFrame),
		scratch:      make([]int16, frameSamples*mp3Channels),
	}, nil
}

func (d *mp3Decoder) Info() Info { return d.info }

// NextFrame decodes as many compressed frames as needed to fill one PCM frame.
func (d *mp3Decoder) NextFrame(dst *pcm.Frame) error {
	if d.done {
		return io.EOF
	}

	n, err := io.ReadFull(d.decoder, d.readBuf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		d.done = true
		return io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		d.done = true
	default:
		d.done = true
		return fmt.Errorf("mp3: %w: %w", ErrCorruptFrame, err)
	}

	frames := n / mp3BytesPerFrame
	if frames == 0 {
		d.done = true
		return io.EOF
	}
	src := d.scratch[:frames*mp3Channels]
	for i := range src {
		src[i] = int16(binary.LittleEndian.Uint16(d.readBuf[i*mp3BytesPerSample:])) //nolint:gosec // audio samples
	}
	dst.Samples = repack(dst.Samples, src, mp3Channels, d.sinkChannels)
	return nil
}

func (d *mp3Decoder) Close() error {
	d.done = true
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
