package storage

import (
	"io"
	"io/fs"

	"github.com/dhowden/tag"

	"github.com/llehouerou/sdplay/internal/decoder"
	"github.com/llehouerou/sdplay/internal/playlist"
)

// Scan walks dir and returns every playable file in lexical path order.
// Unreadable entries are skipped.
func Scan(fsys fs.FS, dir string) ([]playlist.Track, error) {
	root := clean(dir)
	if _, err := fs.Stat(fsys, root); err != nil {
		return nil, err
	}

	var tracks []playlist.Track
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, walkErr error) error {
		// Keep scanning the rest of the medium.
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if d.IsDir() || !decoder.IsAudioFile(p) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}

		tracks = append(tracks, playlist.Track{
			Path:  p,
			Kind:  decoder.KindFromPath(p),
			Title: readTitle(fsys, p),
			Size:  info.Size(),
		})
		return nil
	})
	return tracks, err
}

// readTitle returns the embedded title tag, or "" when the file has none.
func readTitle(fsys fs.FS, p string) string {
	f, err := fsys.Open(p)
	if err != nil {
		return ""
	}
	defer f.Close()

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		return ""
	}
	m, err := tag.ReadFrom(rs)
	if err != nil {
		return ""
	}
	return m.Title()
}
