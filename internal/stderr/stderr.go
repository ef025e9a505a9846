//go:build !windows

// Package stderr captures output that native audio libraries (ALSA under
// oto and beep) write straight to file descriptor 2, so it does not tear
// through the terminal UI.
package stderr

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Capture redirects fd 2 into a pipe while it is running.
type Capture struct {
	// Messages receives captured lines. It is closed by Stop.
	Messages <-chan string

	orig int
	r, w *os.File
	done chan struct{}
}

// Start begins capturing stderr output.
// Must be called before the audio backend is initialized. On error the
// program can continue; output just goes to the terminal.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	// Save original stderr file descriptor
	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	// Redirect stderr (fd 2) to the pipe's write end
	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		_ = unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	msgs := make(chan string, 100)
	c := &Capture{Messages: msgs, orig: orig, r: r, w: w, done: make(chan struct{})}
	go c.read(msgs)
	return c, nil
}

func (c *Capture) read(msgs chan<- string) {
	defer close(c.done)
	defer close(msgs)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case msgs <- line:
		default:
			// Channel full, drop message to avoid blocking
		}
	}
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr and waits for pending lines to be
// delivered or dropped.
func (c *Capture) Stop() {
	_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = unix.Close(c.orig)

	// fd 2 no longer refers to the pipe; closing w ends the reader.
	c.w.Close()
	<-c.done
	c.r.Close()
}
