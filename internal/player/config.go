package player

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/llehouerou/sdplay/internal/pcm"
)

// Defaults used when a Config field is zero.
const (
	DefaultFrameSamples = 1152 // one MPEG-1 Layer III frame
	DefaultSlots        = 8
)

var errNoOpener = errors.New("player: nil opener")

// Config fixes the sink format and the buffer geometry.
type Config struct {
	Format       pcm.Format
	FrameSamples int  // sample frames per slot
	Slots        int  // slots in the stream buffer
	StopOnError  bool // go Idle instead of skipping a playlist entry that fails to open
}

// DefaultConfig returns a CD-quality stereo configuration.
func DefaultConfig() Config {
	return Config{
		Format:       pcm.Format{SampleRate: 44100, Channels: 2},
		FrameSamples: DefaultFrameSamples,
		Slots:        DefaultSlots,
	}
}

func (c *Config) validate() error {
	if err := c.Format.Validate(); err != nil {
		return err
	}
	if c.FrameSamples == 0 {
		c.FrameSamples = DefaultFrameSamples
	}
	if c.Slots == 0 {
		c.Slots = DefaultSlots
	}
	if c.FrameSamples < 0 || c.Slots < 0 {
		return fmt.Errorf("player: %d slots of %d samples", c.Slots, c.FrameSamples)
	}
	return nil
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger; the default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}
