//go:build linux

// Package mpris exposes the playback service on the D-Bus session bus so
// desktop media keys and widgets can drive the player.
package mpris

import (
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/sdplay/internal/playback"
	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
)

const busName = "sdplay"

// Options decides what Play starts when nothing is loaded.
type Options struct {
	Shuffle bool
	Repeat  playlist.RepeatMode
}

// Adapter connects a playback service to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter. root is the directory track
// paths are relative to; it is used to find cover art.
func New(service playback.Service, root string, opts Options) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer(busName, &rootAdapter{}, newPlayerAdapter(service, root, opts)),
	}

	// Start the server in background
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // The terminal owns the lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "sdplay", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/wav", "audio/x-wav", "audio/mpeg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
type playerAdapter struct {
	service playback.Service
	root    string
	opts    Options
}

func newPlayerAdapter(service playback.Service, root string, opts Options) *playerAdapter {
	return &playerAdapter{service: service, root: root, opts: opts}
}

func (p *playerAdapter) Next() error {
	return p.service.Next()
}

func (p *playerAdapter) Previous() error {
	return nil // Playlists only move forward
}

func (p *playerAdapter) Pause() error {
	return p.service.Pause()
}

func (p *playerAdapter) PlayPause() error {
	if p.idle() {
		return p.Play()
	}
	return p.service.Toggle()
}

func (p *playerAdapter) Stop() error {
	return p.service.Stop()
}

// Play resumes, or starts the whole library when nothing is loaded.
func (p *playerAdapter) Play() error {
	if p.idle() {
		return p.service.PlayAll(p.opts.Shuffle, p.opts.Repeat)
	}
	return p.service.Resume()
}

func (p *playerAdapter) idle() bool {
	st := p.service.State()
	return st == player.Idle || st == player.Stopped
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Streams are not seekable
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil // Streams are not seekable
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.service.State()), nil
}

func playbackStatus(s player.State) types.PlaybackStatus {
	switch s {
	case player.Loading, player.Playing, player.Draining:
		return types.PlaybackStatusPlaying
	case player.Paused:
		return types.PlaybackStatusPaused
	case player.Idle, player.Stopped:
		return types.PlaybackStatusStopped
	}
	return types.PlaybackStatusStopped
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	now, ok := p.service.CurrentTrack()
	if !ok {
		return types.Metadata{}, nil
	}

	id := now.Track.Path
	if id == "" {
		id = now.Name
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(id)),
		Title:   now.Name,
	}
	if now.Index >= 0 {
		meta.TrackNumber = now.Index + 1
	}
	if now.Track.Path != "" {
		if artPath := FindAlbumArt(p.root, now.Track.Path); artPath != "" {
			meta.ArtUrl = "file://" + artPath
		}
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil // The sink has no gain stage
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return 0, nil // Not tracked per track
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return !p.idle(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.service.ListTracks()) > 0 || !p.idle(), nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	switch p.service.RepeatMode() {
	case playlist.RepeatOne:
		return types.LoopStatusTrack, nil
	case playlist.RepeatAll:
		return types.LoopStatusPlaylist, nil
	case playlist.RepeatOff:
		return types.LoopStatusNone, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	switch status {
	case types.LoopStatusNone:
		return p.service.SetRepeatMode(playlist.RepeatOff)
	case types.LoopStatusTrack:
		return p.service.SetRepeatMode(playlist.RepeatOne)
	case types.LoopStatusPlaylist:
		return p.service.SetRepeatMode(playlist.RepeatAll)
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.service.Shuffle(), nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	return p.service.SetShuffle(shuffle)
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
