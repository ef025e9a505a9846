package decoder

import "io"

// skipID3v2 moves r past an ID3v2 tag at the start of the stream, or back to
// the start when there is none.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n == 0 {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Tag size is a syncsafe integer: 7 bits per byte.
	size := int64(header[6]&0x7f)<<21 | int64(header[7]&0x7f)<<14 | int64(header[8]&0x7f)<<7 | int64(header[9]&0x7f)

	// Footer flag adds another 10 bytes.
	if header[5]&0x10 != 0 {
		size += 10
	}

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
