// Package storage opens tracks on the medium as seekable byte streams.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

var (
	// ErrNotFound is returned when the requested file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotSeekable is returned when the underlying file cannot seek.
	ErrNotSeekable = errors.New("not seekable")
)

// Stream is an open file on the medium.
type Stream = io.ReadSeekCloser

// Storage opens files by path.
type Storage interface {
	Open(name string) (Stream, error)
}

// FS is a Storage backed by an fs.FS, typically os.DirFS of the mount point.
type FS struct {
	fsys fs.FS
}

// NewFS wraps fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Open opens name for reading. Leading slashes are ignored so that library
// paths and fs.FS paths can be used interchangeably.
func (s *FS) Open(name string) (Stream, error) {
	p := clean(name)
	f, err := s.fsys.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory: %w", name, ErrNotFound)
	}

	rs, ok := f.(Stream)
	if !ok {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w", name, ErrNotSeekable)
	}
	return rs, nil
}

// FS returns the underlying file system.
func (s *FS) FS() fs.FS {
	return s.fsys
}

func clean(name string) string {
	p := strings.TrimPrefix(path.Clean("/"+name), "/")
	if p == "" {
		return "."
	}
	return p
}
