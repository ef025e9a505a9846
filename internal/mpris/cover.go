//go:build linux

package mpris

import (
	"os"
	"path/filepath"
)

// coverNames lists the cover file names players write next to tracks, in
// priority order.
var coverNames = []string{
	"cover.jpg", "cover.png",
	"folder.jpg", "folder.png",
	"front.jpg", "front.png",
	"AlbumArt.jpg",
}

// FindAlbumArt returns the absolute path of a cover image in the directory
// of trackPath (relative to root), or "" when there is none.
func FindAlbumArt(root, trackPath string) string {
	dir := filepath.Join(root, filepath.Dir(filepath.FromSlash(trackPath)))
	for _, name := range coverNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
