//go:build (linux && cgo) || windows || darwin

package sink

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/llehouerou/sdplay/internal/pcm"
)

// Oto plays raw 16-bit PCM through an oto context.
type Oto struct {
	format       pcm.Format
	frameSamples int

	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
}

// NewOto returns an oto sink. The context is created by Start.
func NewOto(format pcm.Format, frameSamples int) *Oto {
	return &Oto{format: format, frameSamples: frameSamples}
}

// Start creates the context, waits for the device and starts pulling.
func (o *Oto) Start(p Puller) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		return ErrStarted
	}

	op := &oto.NewContextOptions{
		SampleRate:   o.format.SampleRate,
		ChannelCount: o.format.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   o.Latency(),
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	<-ready

	o.ctx = ctx
	o.player = ctx.NewPlayer(newReader(p, o.format.FrameLen(o.frameSamples)))
	o.player.Play()
	return nil
}

// Latency returns the device buffer length.
func (o *Oto) Latency() time.Duration {
	return 2 * o.format.FrameDuration(o.frameSamples)
}

// Close stops the player and suspends the context.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	if serr := o.ctx.Suspend(); serr != nil && err == nil {
		err = serr
	}
	return err
}
