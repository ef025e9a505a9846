package playback

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/llehouerou/sdplay/internal/pcm"
	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
	"github.com/llehouerou/sdplay/internal/tone"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

// NoteResolver maps a note name to its frequency in Hz.
type NoteResolver func(name string) (float64, bool)

// Option configures the service.
type Option func(*serviceImpl)

// WithNotes sets the resolver used by PlayNote.
func WithNotes(r NoteResolver) Option {
	return func(s *serviceImpl) { s.notes = r }
}

// WithRand sets the source for shuffled playlists.
func WithRand(r *rand.Rand) Option {
	return func(s *serviceImpl) { s.rng = r }
}

type serviceImpl struct {
	mu sync.Mutex

	player       player.Interface
	tracks       []playlist.Track
	format       pcm.Format
	frameSamples int
	notes        NoteResolver
	rng          *rand.Rand

	// Mode of the playlist last handed to the player; listMode is false
	// until PlayAll succeeds.
	listMode bool
	repeat   playlist.RepeatMode
	shuffle  bool
}

// New creates a playback service over the tracks found on the medium.
// format and frameSamples must match the player's configuration.
func New(p player.Interface, tracks []playlist.Track, format pcm.Format, frameSamples int, opts ...Option) Service {
	s := &serviceImpl{
		player:       p,
		tracks:       slices.Clone(tracks),
		format:       format,
		frameSamples: frameSamples,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTracks returns a copy of the library in playback order.
func (s *serviceImpl) ListTracks() []playlist.Track {
	return slices.Clone(s.tracks)
}

// Play plays path on its own. Paths outside the library are played too.
func (s *serviceImpl) Play(path string) error {
	t := playlist.NewTrack(path)
	if i := slices.IndexFunc(s.tracks, func(t playlist.Track) bool { return t.Path == path }); i >= 0 {
		t = s.tracks[i]
	}
	s.leaveListMode()
	return s.player.Play(t)
}

// PlayAll plays the whole library.
func (s *serviceImpl) PlayAll(shuffle bool, repeat playlist.RepeatMode) error {
	if len(s.tracks) == 0 {
		return ErrEmptyLibrary
	}
	var opts []playlist.Option
	if s.rng != nil {
		opts = append(opts, playlist.WithRand(s.rng))
	}
	l := playlist.New(s.tracks, opts...)
	l.SetRepeat(repeat)
	l.SetShuffle(shuffle)
	if err := s.player.PlayList(l); err != nil {
		return err
	}
	s.mu.Lock()
	s.listMode, s.repeat, s.shuffle = true, repeat, shuffle
	s.mu.Unlock()
	return nil
}

// PlayTrack plays the nth library track (1-based). While a PlayAll
// playlist is loaded it jumps within that playlist and keeps its modes;
// otherwise the track plays on its own.
func (s *serviceImpl) PlayTrack(n int) error {
	if len(s.tracks) == 0 {
		return ErrEmptyLibrary
	}
	if n < 1 || n > len(s.tracks) {
		return fmt.Errorf("track %d of %d: %w", n, len(s.tracks), playlist.ErrIndexOutOfRange)
	}
	s.mu.Lock()
	listMode := s.listMode
	s.mu.Unlock()
	if listMode {
		return s.player.PlayIndex(n - 1)
	}
	return s.player.Play(s.tracks[n-1])
}

// PlayTone plays a sine tone at the sink's rate.
func (s *serviceImpl) PlayTone(freqHz float64, d time.Duration) error {
	return s.playTone(strconv.FormatFloat(freqHz, 'f', -1, 64)+" Hz", freqHz, d)
}

// PlayNote resolves name and plays it as a tone.
func (s *serviceImpl) PlayNote(name string, d time.Duration) error {
	if s.notes == nil {
		return fmt.Errorf("%q: %w", name, ErrNoteUnresolved)
	}
	freq, ok := s.notes(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNoteUnresolved)
	}
	return s.playTone(name, freq, d)
}

func (s *serviceImpl) playTone(name string, freqHz float64, d time.Duration) error {
	tn, err := tone.Generate(freqHz, d, s.format.SampleRate)
	if err != nil {
		return err
	}
	s.leaveListMode()
	return s.player.PlaySource(name, tn.Source(s.frameSamples, s.format.Channels))
}

func (s *serviceImpl) leaveListMode() {
	s.mu.Lock()
	s.listMode = false
	s.mu.Unlock()
}

func (s *serviceImpl) Pause() error  { return s.player.Pause() }
func (s *serviceImpl) Resume() error { return s.player.Resume() }
func (s *serviceImpl) Toggle() error { return s.player.Toggle() }
func (s *serviceImpl) Stop() error   { return s.player.Stop() }

// Next skips to the next playlist entry, or stops outside a playlist.
func (s *serviceImpl) Next() error { return s.player.Skip() }

// RepeatMode returns the repeat mode of the running playlist.
func (s *serviceImpl) RepeatMode() playlist.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repeat
}

// SetRepeatMode changes the repeat mode of the running playlist.
func (s *serviceImpl) SetRepeatMode(mode playlist.RepeatMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRepeatLocked(mode)
}

func (s *serviceImpl) setRepeatLocked(mode playlist.RepeatMode) error {
	if !s.listMode {
		return player.ErrNoPlaylist
	}
	if err := s.player.SetRepeat(mode); err != nil {
		return err
	}
	s.repeat = mode
	return nil
}

// CycleRepeatMode cycles Off -> All -> One -> Off.
func (s *serviceImpl) CycleRepeatMode() (playlist.RepeatMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := playlist.RepeatOff
	switch s.repeat {
	case playlist.RepeatOff:
		next = playlist.RepeatAll
	case playlist.RepeatAll:
		next = playlist.RepeatOne
	case playlist.RepeatOne:
		next = playlist.RepeatOff
	}
	if err := s.setRepeatLocked(next); err != nil {
		return s.repeat, err
	}
	return next, nil
}

// Shuffle returns whether the running playlist is shuffled.
func (s *serviceImpl) Shuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuffle
}

// SetShuffle turns shuffle on or off for the running playlist.
func (s *serviceImpl) SetShuffle(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setShuffleLocked(on)
}

func (s *serviceImpl) setShuffleLocked(on bool) error {
	if !s.listMode {
		return player.ErrNoPlaylist
	}
	if err := s.player.SetShuffle(on); err != nil {
		return err
	}
	s.shuffle = on
	return nil
}

// ToggleShuffle flips shuffle on the running playlist.
func (s *serviceImpl) ToggleShuffle() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.setShuffleLocked(!s.shuffle); err != nil {
		return s.shuffle, err
	}
	return s.shuffle, nil
}

func (s *serviceImpl) State() player.State { return s.player.State() }

func (s *serviceImpl) CurrentTrack() (player.NowPlaying, bool) { return s.player.Current() }

func (s *serviceImpl) Stats() player.Stats { return s.player.Stats() }

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *player.Subscription { return s.player.Subscribe() }

// Close shuts down the player.
func (s *serviceImpl) Close() error {
	s.leaveListMode()
	return s.player.Close()
}
