package player

import (
	"github.com/llehouerou/sdplay/internal/pcm"
)

// Pull fills dst with the next buffered frame, padding with silence. It
// never blocks and takes no lock, so it can run on the sink's real-time
// path. An empty buffer while Playing counts as an underrun.
func (c *Controller) Pull(dst []int16) {
	s := c.State()
	if !s.consuming() {
		clear(dst)
		return
	}
	n, ok := c.buf.TryRead(dst)
	if ok {
		clear(dst[n:])
	} else {
		clear(dst)
		if s == Playing {
			c.underruns.Add(1)
		}
	}
	c.signal()
}

func (c *Controller) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Stats is a snapshot of controller and buffer counters.
type Stats struct {
	State     State
	Buffered  int    // full slots
	Slots     int    // buffer capacity
	Underruns uint64 // silent slots fed while Playing
	Written   uint64 // frames buffered since start
	Played    uint64 // frames handed to the sink since start
}

// State returns the current state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Current returns what is playing, if anything.
func (c *Controller) Current() (NowPlaying, bool) {
	np := c.now.Load()
	if np == nil {
		return NowPlaying{}, false
	}
	return *np, true
}

// Stats returns a snapshot of the counters.
func (c *Controller) Stats() Stats {
	bs := c.buf.Stats()
	return Stats{
		State:     c.State(),
		Buffered:  c.buf.Len(),
		Slots:     c.buf.Cap(),
		Underruns: c.underruns.Load(),
		Written:   bs.Writes,
		Played:    bs.Reads,
	}
}

// Format returns the sink format the controller produces.
func (c *Controller) Format() pcm.Format {
	return c.cfg.Format
}

// FrameSamples returns the number of sample frames per slot.
func (c *Controller) FrameSamples() int {
	return c.cfg.FrameSamples
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	if c.finished {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}
