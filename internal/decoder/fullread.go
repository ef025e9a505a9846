package decoder

import (
	"errors"
	"io"
)

// fullReader makes every Read fill p unless the stream ends. Storage may
// return short reads, and the codec libraries drop a sample split across
// two of them.
type fullReader struct {
	io.ReadSeeker
}

func (r fullReader) Read(p []byte) (int, error) {
	n, err := io.ReadFull(r.ReadSeeker, p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, err
}
