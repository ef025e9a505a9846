package player

import (
	"errors"

	"github.com/llehouerou/sdplay/internal/playlist"
)

// Commands block until the run loop has applied them.

// Play stops whatever is playing and starts t on its own. An open failure
// is returned and leaves the controller Idle.
func (c *Controller) Play(t playlist.Track) error {
	return c.do(func() error {
		c.reset()
		c.list = nil
		return c.start(t, -1)
	})
}

// PlayList stops whatever is playing and starts l from its next entry.
// Entries that fail to open are skipped unless StopOnError is set.
func (c *Controller) PlayList(l *playlist.Playlist) error {
	if l == nil || l.Len() == 0 {
		return ErrEmptyPlaylist
	}
	return c.do(func() error {
		c.reset()
		c.list = l
		t, ok := l.Next()
		if !ok {
			return ErrEmptyPlaylist
		}
		return c.startFromList(t)
	})
}

// PlayIndex restarts playback at entry i of the loaded playlist. An
// out-of-range index is rejected without touching playback.
func (c *Controller) PlayIndex(i int) error {
	return c.do(func() error {
		if c.list == nil {
			return ErrNoPlaylist
		}
		t, err := c.list.Jump(i)
		if err != nil {
			return err
		}
		c.reset()
		return c.startFromList(t)
	})
}

// PlaySource stops whatever is playing and plays src, typically a tone.
// The controller takes ownership of src.
func (c *Controller) PlaySource(name string, src Source) error {
	return c.do(func() error {
		c.reset()
		c.list = nil
		c.load(src, &NowPlaying{Name: name, Index: -1})
		return nil
	})
}

// Skip abandons the current track and starts the next playlist entry,
// moving on even under RepeatOne. Without a playlist, or past its end, it
// behaves like Stop.
func (c *Controller) Skip() error {
	return c.do(func() error {
		if c.list == nil {
			c.reset()
			return nil
		}
		t, ok := c.list.Skip()
		c.reset()
		if !ok {
			return nil
		}
		return c.startFromList(t)
	})
}

// SetRepeat changes the repeat mode of the loaded playlist. The current
// track keeps playing.
func (c *Controller) SetRepeat(m playlist.RepeatMode) error {
	return c.do(func() error {
		if c.list == nil {
			return ErrNoPlaylist
		}
		c.list.SetRepeat(m)
		return nil
	})
}

// SetShuffle turns shuffle on or off for the loaded playlist. Enabling it
// keeps the current track and shuffles the rest.
func (c *Controller) SetShuffle(on bool) error {
	return c.do(func() error {
		if c.list == nil {
			return ErrNoPlaylist
		}
		c.list.SetShuffle(on)
		return nil
	})
}

// Pause freezes both the producer and the sink. The buffer is kept.
func (c *Controller) Pause() error {
	return c.do(func() error {
		if c.State().CanPause() {
			c.setState(Paused)
		}
		return nil
	})
}

// Resume continues after Pause.
func (c *Controller) Resume() error {
	return c.do(func() error {
		if c.State().CanResume() {
			c.setState(Playing)
		}
		return nil
	})
}

// Toggle switches between Playing and Paused.
func (c *Controller) Toggle() error {
	return c.do(func() error {
		switch c.State() {
		case Playing:
			c.setState(Paused)
		case Paused:
			c.setState(Playing)
		case Idle, Loading, Draining, Stopped:
			// Nothing to toggle
		}
		return nil
	})
}

// Stop goes Idle at once: the source is released and buffered frames are
// dropped. The playlist stays loaded for PlayIndex and Skip.
func (c *Controller) Stop() error {
	return c.do(func() error {
		c.reset()
		return nil
	})
}

// Close stops playback for good and makes Run return. The controller ends
// in Stopped.
func (c *Controller) Close() error {
	if c.running.CompareAndSwap(false, true) {
		// Run was never started.
		c.shutdown()
		c.finish()
		return nil
	}
	err := c.do(func() error {
		c.shutdown()
		c.closing = true
		return nil
	})
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}
