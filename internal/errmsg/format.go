// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryScan Op = "scan music directory"
	OpTrackList   Op = "list tracks"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlayTrack     Op = "play track"
	OpPlayFile      Op = "play file"
	OpPlayTone      Op = "play tone"
	OpPlayNote      Op = "play note"
	OpPlaybackMode  Op = "change playback mode"

	// Output operations
	OpSinkOpen Op = "open audio output"
	OpRecord   Op = "record output"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize player"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
