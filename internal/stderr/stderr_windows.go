//go:build windows

// Package stderr provides a no-op implementation for Windows.
// Windows audio libraries don't produce the same stderr noise as ALSA.
package stderr

import "os"

// Capture is a no-op on Windows.
type Capture struct {
	Messages <-chan string

	msgs chan string
}

// Start returns a capture that never receives anything.
func Start() (*Capture, error) {
	msgs := make(chan string)
	return &Capture{Messages: msgs, msgs: msgs}, nil
}

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop closes Messages.
func (c *Capture) Stop() {
	close(c.msgs)
}
