package player

import "github.com/llehouerou/sdplay/internal/playlist"

// Interface defines the controller contract for dependency injection and testing.
type Interface interface {
	Play(t playlist.Track) error
	PlayList(l *playlist.Playlist) error
	PlayIndex(i int) error
	PlaySource(name string, src Source) error
	Skip() error
	SetRepeat(m playlist.RepeatMode) error
	SetShuffle(on bool) error
	Pause() error
	Resume() error
	Toggle() error
	Stop() error
	Close() error

	State() State
	Current() (NowPlaying, bool)
	Stats() Stats
	Subscribe() *Subscription
}

// Verify Controller implements Interface at compile time.
var _ Interface = (*Controller)(nil)
