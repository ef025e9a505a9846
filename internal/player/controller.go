// Package player runs the playback state machine: it opens tracks, decodes
// them into the stream buffer on a background loop, and feeds the sink from
// that buffer without ever blocking it.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/llehouerou/sdplay/internal/decoder"
	"github.com/llehouerou/sdplay/internal/pcm"
	"github.com/llehouerou/sdplay/internal/playlist"
)

// maxCorruptFrames is how many corrupt frames in a row are skipped before
// the track is abandoned.
const maxCorruptFrames = 8

var (
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("player: closed")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("player: already running")
	// ErrNothingPlayable is reported when every entry of a playlist failed.
	ErrNothingPlayable = errors.New("nothing playable")
	// ErrEmptyPlaylist is returned when a playlist has no entry to start with.
	ErrEmptyPlaylist = errors.New("empty playlist")
	// ErrNoPlaylist is returned by PlayIndex when no playlist is loaded.
	ErrNoPlaylist = errors.New("no playlist loaded")
)

type command struct {
	run   func() error
	reply chan error
}

// Controller owns the playback state. Commands are serialized through Run,
// which is also the producer filling the stream buffer. Pull is the
// consumer side and is safe to call from the sink's audio callback.
type Controller struct {
	cfg    Config
	open   Opener
	logger *slog.Logger
	buf    *pcm.Buffer

	state     atomic.Int32
	now       atomic.Pointer[NowPlaying]
	underruns atomic.Uint64
	running   atomic.Bool

	cmds chan command
	wake chan struct{} // consumer freed a slot or found the buffer empty
	done chan struct{}

	subsMu   sync.RWMutex
	subs     []*Subscription
	finished bool

	// Run loop only.
	src      Source
	list     *playlist.Playlist
	frame    pcm.Frame
	pending  bool             // frame holds a decoded frame not yet buffered
	corrupt  int              // consecutive corrupt frames from src
	produced bool             // src has buffered at least one frame
	dead     map[int]struct{} // list entries that failed or played nothing since the last buffered frame
	reported uint64
	closing  bool
}

// New creates an idle controller. Call Run to start it.
func New(cfg Config, open Opener, opts ...Option) (*Controller, error) {
	if open == nil {
		return nil, errNoOpener
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	buf, err := pcm.NewBuffer(cfg.Slots, cfg.Format.FrameLen(cfg.FrameSamples))
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:    cfg,
		open:   open,
		logger: slog.New(slog.DiscardHandler),
		buf:    buf,
		cmds:   make(chan command),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		frame:  pcm.NewFrame(cfg.Format, cfg.FrameSamples),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run executes commands and fills the buffer until Close is called or ctx
// is cancelled. It returns nil after Close.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		select {
		case <-c.done:
			return ErrClosed
		default:
			return ErrAlreadyRunning
		}
	}
	defer c.finish()

	for {
		c.publishUnderruns()
		if c.closing {
			return nil
		}

		if c.producing() {
			// Commands take effect at frame boundaries.
			select {
			case <-ctx.Done():
				c.shutdown()
				return ctx.Err()
			case cmd := <-c.cmds:
				c.handle(cmd)
				continue
			default:
			}
			if c.produce() {
				continue
			}
		} else if c.State() == Draining && c.buf.Len() == 0 {
			c.reset()
			continue
		}

		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case cmd := <-c.cmds:
			c.handle(cmd)
		case <-c.wake:
		}
	}
}

func (c *Controller) handle(cmd command) {
	cmd.reply <- cmd.run()
}

// do runs fn on the run loop and waits for its result.
func (c *Controller) do(fn func() error) error {
	cmd := command{run: fn, reply: make(chan error, 1)}
	select {
	case c.cmds <- cmd:
	case <-c.done:
		return ErrClosed
	}
	return <-cmd.reply
}

func (c *Controller) producing() bool {
	s := c.State()
	return c.src != nil && (s == Loading || s == Playing)
}

// produce moves one frame from the source into the buffer. It returns false
// when the buffer is full and the loop should wait for the consumer.
func (c *Controller) produce() bool {
	if !c.pending {
		err := c.src.NextFrame(&c.frame)
		if err == nil && len(c.frame.Samples) > c.buf.SlotLen() {
			err = fmt.Errorf("frame of %d samples exceeds slot of %d: %w",
				len(c.frame.Samples), c.buf.SlotLen(), decoder.ErrCorruptFrame)
		}
		if errors.Is(err, decoder.ErrCorruptFrame) && c.corrupt < maxCorruptFrames {
			c.skipFrame(err)
			return true
		}
		if err != nil {
			c.endOfSource(err)
			return true
		}
		c.corrupt = 0
		if len(c.frame.Samples) == 0 {
			return true
		}
		c.pending = true
	}
	if !c.buf.TryWrite(c.frame) {
		return false
	}
	c.pending = false
	c.produced = true
	if len(c.dead) > 0 {
		clear(c.dead)
	}
	if c.State() == Loading {
		c.setState(Playing)
	}
	return true
}

// skipFrame drops a frame the source could not decode and keeps reading.
func (c *Controller) skipFrame(err error) {
	c.corrupt++
	path := c.currentPath()
	c.logger.Warn("corrupt frame skipped", "path", path, "error", err)
	c.publishError(ErrorEvent{Operation: "decode", Path: path, Err: err})
	c.frame.Reset()
}

func (c *Controller) currentPath() string {
	if np := c.now.Load(); np != nil {
		return np.Track.Path
	}
	return ""
}

func (c *Controller) endOfSource(err error) {
	path := c.currentPath()
	switch {
	case errors.Is(err, io.EOF):
		c.logger.Debug("track finished", "path", path)
	case errors.Is(err, decoder.ErrCorruptFrame):
		c.logger.Warn("too many corrupt frames, ending track early", "path", path, "error", err)
		c.publishError(ErrorEvent{Operation: "decode", Path: path, Err: err})
	default:
		c.logger.Warn("read failed", "path", path, "error", err)
		c.publishError(ErrorEvent{Operation: "decode", Path: path, Err: err})
	}
	empty := !c.produced
	c.closeSource()
	if empty && c.list != nil && c.markDead(c.list.CurrentIndex()) {
		c.nothingPlayable()
		return
	}
	c.advance(empty)
}

// advance loads the next playlist entry behind the frames still buffered,
// or lets the buffer drain when there is none. After a track that produced
// nothing it skips, so RepeatOne does not reopen the same entry.
func (c *Controller) advance(skip bool) {
	if c.list != nil {
		next := c.list.Next
		if skip {
			next = c.list.Skip
		}
		if t, ok := next(); ok {
			_ = c.startFromList(t)
			return
		}
	}
	c.drain()
}

func (c *Controller) drain() {
	if c.buf.Len() == 0 {
		c.reset()
		return
	}
	c.setState(Draining)
}

func (c *Controller) start(t playlist.Track, index int) error {
	src, err := c.open(t)
	if err != nil {
		c.logger.Warn("open failed", "path", t.Path, "error", err)
		c.publishError(ErrorEvent{Operation: "open", Path: t.Path, Err: err})
		return err
	}
	c.logger.Debug("track loading", "path", t.Path, "index", index)
	c.load(src, &NowPlaying{Name: t.DisplayName(), Track: t, Index: index})
	return nil
}

func (c *Controller) load(src Source, np *NowPlaying) {
	c.src = src
	c.pending = false
	c.corrupt = 0
	c.produced = false
	c.frame.Reset()
	c.setNow(np)
	c.setState(Loading)
}

// markDead records that entry i failed or played nothing. It reports
// whether every entry of the list has now done so.
func (c *Controller) markDead(i int) bool {
	if c.dead == nil {
		c.dead = make(map[int]struct{})
	}
	c.dead[i] = struct{}{}
	return len(c.dead) >= c.list.Len()
}

// startFromList starts t, skipping entries that fail to open. Once every
// distinct entry has failed or played nothing it ends in ErrNothingPlayable.
func (c *Controller) startFromList(t playlist.Track) error {
	for {
		i := c.list.CurrentIndex()
		err := c.start(t, i)
		if err == nil {
			return nil
		}
		allDead := c.markDead(i)
		if c.cfg.StopOnError {
			c.reset()
			return err
		}
		if allDead {
			c.nothingPlayable()
			return ErrNothingPlayable
		}
		next, ok := c.list.Skip()
		if !ok {
			c.drain()
			return err
		}
		t = next
	}
}

func (c *Controller) closeSource() {
	if c.src != nil {
		if err := c.src.Close(); err != nil {
			c.logger.Debug("close source", "error", err)
		}
		c.src = nil
	}
	c.pending = false
	c.frame.Reset()
}

// nothingPlayable ends the playlist. Frames already buffered still play out.
func (c *Controller) nothingPlayable() {
	c.logger.Warn("nothing playable", "tracks", c.list.Len())
	c.publishError(ErrorEvent{Operation: "open", Err: ErrNothingPlayable})
	clear(c.dead)
	c.closeSource()
	c.drain()
}

// reset releases the source and empties the buffer. The state goes Idle
// before the buffer is cleared so the consumer stops reading first.
func (c *Controller) reset() {
	clear(c.dead)
	c.closeSource()
	c.setState(Idle)
	c.buf.Reset()
	c.setNow(nil)
}

func (c *Controller) shutdown() {
	c.closeSource()
	c.setState(Stopped)
	c.buf.Reset()
	c.setNow(nil)
}

func (c *Controller) finish() {
	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.finished = true
	c.subsMu.Unlock()
	close(c.done)
}

func (c *Controller) setState(s State) {
	prev := State(c.state.Swap(int32(s)))
	if prev == s {
		return
	}
	c.logger.Debug("state", "from", prev, "to", s)
	c.publish(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: s})
	})
}

func (c *Controller) setNow(np *NowPlaying) {
	prev := c.now.Swap(np)
	if np == nil {
		return
	}
	c.publish(func(sub *Subscription) {
		sub.sendTrack(TrackChange{Previous: prev, Current: *np})
	})
}

func (c *Controller) publishUnderruns() {
	n := c.underruns.Load()
	if n == c.reported {
		return
	}
	c.reported = n
	c.logger.Warn("buffer underrun", "total", n)
	c.publish(func(sub *Subscription) {
		sub.sendUnderrun(UnderrunEvent{Total: n})
	})
}

func (c *Controller) publishError(e ErrorEvent) {
	c.publish(func(sub *Subscription) { sub.sendError(e) })
}

func (c *Controller) publish(fn func(*Subscription)) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		fn(sub)
	}
}
