package sink

import (
	"context"
	"sync"
	"time"

	"github.com/llehouerou/sdplay/internal/pcm"
)

// Clock is a headless sink: it pulls one frame per frame period and
// discards it, or hands it to a tap.
type Clock struct {
	period time.Duration
	buf    []int16
	tap    func(frame []int16) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewClock returns a clock pacing pulls at the rate format plays
// frameSamples sample frames.
func NewClock(format pcm.Format, frameSamples int) *Clock {
	return newClock(format, frameSamples, nil)
}

func newClock(format pcm.Format, frameSamples int, tap func([]int16) error) *Clock {
	return &Clock{
		period: format.FrameDuration(frameSamples),
		buf:    make([]int16, format.FrameLen(frameSamples)),
		tap:    tap,
	}
}

// Period returns the time between two pulls.
func (c *Clock) Period() time.Duration {
	return c.period
}

// Latency is zero: a pulled frame is consumed at once.
func (c *Clock) Latency() time.Duration {
	return 0
}

// Start begins pulling from p in a background goroutine.
func (c *Clock) Start(p Puller) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return ErrStarted
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, p)
	return nil
}

func (c *Clock) run(ctx context.Context, p Puller) {
	defer close(c.done)
	t := time.NewTicker(c.period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.Pull(c.buf)
			if c.tap == nil {
				continue
			}
			if err := c.tap(c.buf); err != nil {
				c.err = err
				return
			}
		}
	}
}

// Close stops the clock and waits for the last pull to finish. It returns
// the error that stopped the tap, if any.
func (c *Clock) Close() error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return c.err
}
