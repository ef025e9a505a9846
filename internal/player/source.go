package player

import (
	"fmt"

	"github.com/llehouerou/sdplay/internal/decoder"
	"github.com/llehouerou/sdplay/internal/pcm"
	"github.com/llehouerou/sdplay/internal/playlist"
	"github.com/llehouerou/sdplay/internal/storage"
)

// Source yields sink-native frames for one track. Decoders and tone readers
// both satisfy it.
type Source interface {
	// NextFrame fills dst with the next frame. io.EOF ends the track.
	NextFrame(dst *pcm.Frame) error
	Close() error
}

// Opener binds a track to a ready Source. It runs on the controller's run
// loop, so storage latency delays production but never the sink.
type Opener func(t playlist.Track) (Source, error)

// StorageOpener opens tracks from s and decodes them to format.
func StorageOpener(s storage.Storage, format pcm.Format, frameSamples int) Opener {
	return func(t playlist.Track) (Source, error) {
		stream, err := s.Open(t.Path)
		if err != nil {
			return nil, err
		}
		kind := t.Kind
		if kind == decoder.KindUnknown {
			kind = decoder.KindFromPath(t.Path)
		}
		d, err := decoder.Open(stream, kind, format, frameSamples)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Path, err)
		}
		return d, nil
	}
}
