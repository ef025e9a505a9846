// Package playback is the command surface over the controller: it knows the
// tracks found on the medium and turns user commands into controller calls.
package playback

import (
	"errors"
	"time"

	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
)

var (
	// ErrEmptyLibrary is returned when no audio file was found on the medium.
	ErrEmptyLibrary = errors.New("no audio files found")
	// ErrNoteUnresolved is returned when a note name has no known frequency.
	ErrNoteUnresolved = errors.New("unknown note")
)

// Service defines the playback service contract.
type Service interface {
	// Library
	ListTracks() []playlist.Track

	// Playback control
	Play(path string) error
	PlayAll(shuffle bool, repeat playlist.RepeatMode) error
	PlayTrack(n int) error // 1-based, played on its own
	PlayTone(freqHz float64, d time.Duration) error
	PlayNote(name string, d time.Duration) error
	Pause() error
	Resume() error
	Toggle() error
	Stop() error
	Next() error

	// Mode control (needs PlayAll)
	RepeatMode() playlist.RepeatMode
	SetRepeatMode(mode playlist.RepeatMode) error
	CycleRepeatMode() (playlist.RepeatMode, error)
	Shuffle() bool
	SetShuffle(on bool) error
	ToggleShuffle() (bool, error)

	// State queries
	State() player.State
	CurrentTrack() (player.NowPlaying, bool)
	Stats() player.Stats

	// Event subscription
	Subscribe() *player.Subscription

	// Lifecycle
	Close() error
}
