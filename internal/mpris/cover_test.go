//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("fake"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindAlbumArt(t *testing.T) {
	root := t.TempDir()
	coverPath := filepath.Join(root, "album", "cover.jpg")
	writeFile(t, coverPath)

	got := FindAlbumArt(root, "album/01.mp3")
	if got != coverPath {
		t.Errorf("FindAlbumArt() = %q, want %q", got, coverPath)
	}
}

func TestFindAlbumArt_NotFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "other", "cover.jpg"))

	if got := FindAlbumArt(root, "album/01.mp3"); got != "" {
		t.Errorf("FindAlbumArt() = %q, want empty string", got)
	}
}

func TestFindAlbumArt_Priority(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "folder.jpg"))
	coverPath := filepath.Join(root, "cover.png")
	writeFile(t, coverPath)

	if got := FindAlbumArt(root, "track.wav"); got != coverPath {
		t.Errorf("FindAlbumArt() = %q, want %q (higher priority)", got, coverPath)
	}
}

func TestFindAlbumArt_SkipsDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "cover.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindAlbumArt(root, "track.wav"); got != "" {
		t.Errorf("FindAlbumArt() = %q, want empty string", got)
	}
}
