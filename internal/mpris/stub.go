//go:build !linux

package mpris

import (
	"github.com/llehouerou/sdplay/internal/playback"
	"github.com/llehouerou/sdplay/internal/playlist"
)

// Options decides what Play starts when nothing is loaded.
type Options struct {
	Shuffle bool
	Repeat  playlist.RepeatMode
}

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ playback.Service, _ string, _ Options) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
