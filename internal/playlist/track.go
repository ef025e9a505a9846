package playlist

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/llehouerou/sdplay/internal/decoder"
)

// Track is an immutable reference to a playable file on the medium.
type Track struct {
	Path  string       // path relative to the storage root
	Kind  decoder.Kind // container format, from the extension
	Title string       // tag title, empty when the file has none
	Size  int64        // file size in bytes
}

// NewTrack builds a reference from a path alone.
func NewTrack(path string) Track {
	return Track{Path: path, Kind: decoder.KindFromPath(path)}
}

// DisplayName returns the title, or the file name without extension.
func (t Track) DisplayName() string {
	if t.Title != "" {
		return t.Title
	}
	base := filepath.Base(t.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FormatDuration formats a duration as MM:SS.
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
