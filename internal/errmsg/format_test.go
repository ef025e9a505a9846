//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpLibraryScan,
			err:      nil,
			expected: "",
		},
		{
			name:     "library scan operation",
			op:       OpLibraryScan,
			err:      errors.New("permission denied"),
			expected: "Failed to scan music directory: permission denied",
		},
		{
			name:     "output operation",
			op:       OpSinkOpen,
			err:      errors.New("no audio device"),
			expected: "Failed to open audio output: no audio device",
		},
		{
			name:     "wrapped error keeps its chain text",
			op:       OpPlaybackStart,
			err:      fmt.Errorf("track.mp3: %w", errors.New("malformed header")),
			expected: "Failed to start playback: track.mp3: malformed header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlayFile,
			context:  "song.mp3",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpPlayFile,
			context:  "song.mp3",
			err:      errors.New("unsupported format"),
			expected: "Failed to play file 'song.mp3': unsupported format",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpPlayFile,
			context:  "",
			err:      errors.New("unsupported format"),
			expected: "Failed to play file: unsupported format",
		},
		{
			name:     "note with name context",
			op:       OpPlayNote,
			context:  "H4",
			err:      errors.New("unknown note"),
			expected: "Failed to play note 'H4': unknown note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpLibraryScan, OpTrackList,
		OpPlaybackStart, OpPlayTrack, OpPlayFile, OpPlayTone, OpPlayNote, OpPlaybackMode,
		OpSinkOpen, OpRecord,
		OpConfigLoad, OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
