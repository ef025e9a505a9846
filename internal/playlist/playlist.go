// Package playlist holds the ordered track list with its cursor, shuffle
// permutation and repeat mode.
package playlist

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// ErrIndexOutOfRange is returned when a jump targets a missing entry.
var ErrIndexOutOfRange = errors.New("index out of range")

// Option configures a Playlist.
type Option func(*Playlist)

// WithRand sets the source used for shuffle permutations.
func WithRand(r *rand.Rand) Option {
	return func(p *Playlist) { p.rng = r }
}

// Playlist is an ordered sequence of tracks with a cursor.
// It is not safe for concurrent use; the player owns it once handed over.
type Playlist struct {
	tracks  []Track
	current int // -1 before the first Next or Jump
	repeat  RepeatMode

	shuffle bool
	perm    []int // walk order over track indices while shuffling
	permPos int   // position of current in perm, -1 before the first pick

	rng *rand.Rand
}

// New creates a playlist over tracks in the given order.
func New(tracks []Track, opts ...Option) *Playlist {
	p := &Playlist{
		tracks:  slices.Clone(tracks),
		current: -1,
		permPos: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // shuffle order
	}
	return p
}

// Tracks returns a copy of the tracks in insertion order.
func (p *Playlist) Tracks() []Track {
	return slices.Clone(p.tracks)
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Track returns the track at index i in insertion order.
func (p *Playlist) Track(i int) (Track, bool) {
	if i < 0 || i >= len(p.tracks) {
		return Track{}, false
	}
	return p.tracks[i], true
}

// CurrentIndex returns the insertion-order index of the current track, or
// -1 if there is none.
func (p *Playlist) CurrentIndex() int {
	return p.current
}

// Current returns the current track.
func (p *Playlist) Current() (Track, bool) {
	return p.Track(p.current)
}

// Repeat returns the repeat mode.
func (p *Playlist) Repeat() RepeatMode {
	return p.repeat
}

// SetRepeat changes the repeat mode. The cursor is not moved.
func (p *Playlist) SetRepeat(mode RepeatMode) {
	p.repeat = mode
}

// Shuffle reports whether shuffle is enabled.
func (p *Playlist) Shuffle() bool {
	return p.shuffle
}

// Next moves the cursor and returns the new current track. It returns false
// at the end of the list unless repeat is enabled.
func (p *Playlist) Next() (Track, bool) {
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	if p.repeat == RepeatOne && p.current >= 0 {
		return p.tracks[p.current], true
	}
	return p.advance(p.repeat == RepeatAll)
}

// Skip moves past the current track even under RepeatOne, which then wraps
// like RepeatAll.
func (p *Playlist) Skip() (Track, bool) {
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	return p.advance(p.repeat != RepeatOff)
}

func (p *Playlist) advance(wrap bool) (Track, bool) {
	if p.shuffle {
		return p.nextShuffled(wrap)
	}
	next := p.current + 1
	if next >= len(p.tracks) {
		if !wrap {
			return Track{}, false
		}
		next = 0
	}
	p.current = next
	return p.tracks[next], true
}

// Jump moves the cursor to index i in insertion order. An out-of-range index
// leaves the playlist unchanged.
func (p *Playlist) Jump(i int) (Track, error) {
	if i < 0 || i >= len(p.tracks) {
		return Track{}, fmt.Errorf("jump to %d of %d: %w", i, len(p.tracks), ErrIndexOutOfRange)
	}
	p.current = i
	if p.shuffle {
		p.permPos = slices.Index(p.perm, i)
	}
	return p.tracks[i], nil
}

