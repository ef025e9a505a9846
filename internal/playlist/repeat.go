package playlist

import (
	"fmt"
	"strings"
)

// RepeatMode defines what Next does at the end of the list.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// ParseRepeatMode accepts the names used on the command line and in the
// config file: off, none, one, all (case-insensitive).
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return RepeatOff, nil
	case "one":
		return RepeatOne, nil
	case "all":
		return RepeatAll, nil
	default:
		return RepeatOff, fmt.Errorf("unknown repeat mode %q", s)
	}
}
