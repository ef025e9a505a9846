package player

import "github.com/llehouerou/sdplay/internal/playlist"

// NowPlaying describes what the controller is currently producing.
type NowPlaying struct {
	Name  string         // display name
	Track playlist.Track // zero for synthesized sources
	Index int            // playlist index, -1 outside a playlist
}

// StateChange is emitted on every state transition.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a new source has been opened and starts
// filling the buffer. Earlier frames may still be playing at that point.
type TrackChange struct {
	Previous *NowPlaying
	Current  NowPlaying
}

// UnderrunEvent reports that the sink found the buffer empty while playing
// and was fed silence. Total is the session-wide underrun count.
type UnderrunEvent struct {
	Total uint64
}

// ErrorEvent is emitted when a track fails to open or decode.
type ErrorEvent struct {
	Operation string // "open", "decode"
	Path      string
	Err       error
}
