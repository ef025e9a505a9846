package sink

import (
	"encoding/binary"

	"github.com/gopxl/beep/v2"
)

// streamer adapts a Puller to beep's float stereo streamer.
type streamer struct {
	p        Puller
	channels int
	buf      []int16
	pos      int
}

var _ beep.Streamer = (*streamer)(nil)

func newStreamer(p Puller, channels, frameLen int) *streamer {
	buf := make([]int16, frameLen)
	return &streamer{p: p, channels: channels, buf: buf, pos: len(buf)}
}

func (s *streamer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= len(s.buf) {
			s.p.Pull(s.buf)
			s.pos = 0
		}
		left := float64(s.buf[s.pos]) / 32768
		right := left
		if s.channels == 2 {
			right = float64(s.buf[s.pos+1]) / 32768
		}
		samples[i][0] = left
		samples[i][1] = right
		s.pos += s.channels
	}
	return len(samples), true
}

func (s *streamer) Err() error {
	return nil
}

// reader adapts a Puller to an io.Reader of little-endian int16 samples.
type reader struct {
	p   Puller
	buf []int16
	pos int
}

func newReader(p Puller, frameLen int) *reader {
	buf := make([]int16, frameLen)
	return &reader{p: p, buf: buf, pos: len(buf)}
}

// Read always fills p up to an even length and never fails.
func (r *reader) Read(p []byte) (int, error) {
	n := 0
	for ; n+1 < len(p); n += 2 {
		if r.pos >= len(r.buf) {
			r.p.Pull(r.buf)
			r.pos = 0
		}
		binary.LittleEndian.PutUint16(p[n:], uint16(r.buf[r.pos]))
		r.pos++
	}
	return n, nil
}
