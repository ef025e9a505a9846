// Package app contains the interactive terminal UI.
package app

import (
	"time"

	"github.com/llehouerou/sdplay/internal/player"
)

// TickMsg is sent periodically to update the elapsed time.
type TickMsg time.Time

// ServiceStateChangedMsg is sent when the controller changes state.
type ServiceStateChangedMsg struct {
	Previous player.State
	Current  player.State
}

// ServiceTrackChangedMsg is sent when a new track starts loading.
type ServiceTrackChangedMsg struct {
	Name  string
	Index int
}

// ServiceUnderrunMsg is sent when the sink was fed silence.
type ServiceUnderrunMsg struct {
	Total uint64
}

// ServiceErrorMsg is sent when a track fails to open or decode.
type ServiceErrorMsg struct {
	Operation string
	Path      string
	Err       error
}

// ServiceClosedMsg is sent when the controller has shut down.
type ServiceClosedMsg struct{}

// StderrMsg carries a line written to stderr by a native library.
type StderrMsg struct {
	Line string
}
