package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
)

// State holds everything needed to render the player bar.
type State struct {
	Status    player.State
	Name      string
	Index     int // playlist index, -1 outside a playlist
	Total     int // playlist length
	Repeat    playlist.RepeatMode
	Shuffle   bool
	Elapsed   time.Duration
	Buffered  int
	Slots     int
	Underruns uint64
}

// Height returns the total height of the player bar.
func Height() int {
	return 3 // top border + content + bottom border
}

// Playback is the part of the playback service the bar reads.
type Playback interface {
	State() player.State
	CurrentTrack() (player.NowPlaying, bool)
	Stats() player.Stats
	RepeatMode() playlist.RepeatMode
	Shuffle() bool
}

// NewState builds a State from the playback service.
func NewState(svc Playback, total int, elapsed time.Duration) State {
	st := svc.Stats()
	s := State{
		Status:    svc.State(),
		Index:     -1,
		Total:     total,
		Repeat:    svc.RepeatMode(),
		Shuffle:   svc.Shuffle(),
		Elapsed:   elapsed,
		Buffered:  st.Buffered,
		Slots:     st.Slots,
		Underruns: st.Underruns,
	}
	if now, ok := svc.CurrentTrack(); ok {
		s.Name = now.Name
		s.Index = now.Index
	}
	return s
}

// Render returns the player bar string for the given width.
// Returns empty string when nothing is playing.
func Render(s State, width int) string {
	if !s.Status.IsActive() {
		return ""
	}
	innerWidth := max(width-6, 0)

	status := playSymbol
	if s.Status == player.Paused {
		status = pauseSymbol
	}

	var right []string
	if s.Index >= 0 && s.Total > 0 {
		right = append(right, metaStyle().Render(fmt.Sprintf("%d/%d", s.Index+1, s.Total)))
		if s.Repeat != playlist.RepeatOff {
			right = append(right, metaStyle().Render(repeatSymbol+" "+s.Repeat.String()))
		}
		if s.Shuffle {
			right = append(right, metaStyle().Render(shuffleSymbol))
		}
	}
	right = append(right, bufferBar(s.Buffered, s.Slots))
	if s.Underruns > 0 {
		right = append(right, warnStyle().Render(fmt.Sprintf("%d underruns", s.Underruns)))
	}
	right = append(right, timeStyle().Render(playlist.FormatDuration(s.Elapsed)))
	tail := strings.Join(right, separator)

	name := s.Name
	if name == "" {
		name = "Unknown Track"
	}
	prefix := status + "  "
	avail := max(innerWidth-lipgloss.Width(prefix)-lipgloss.Width(separator)-lipgloss.Width(tail), 5)
	title := titleStyle().Render(ansi.Truncate(name, avail, "…"))

	gap := max(innerWidth-lipgloss.Width(prefix)-lipgloss.Width(title)-lipgloss.Width(tail), lipgloss.Width(separator))
	content := prefix + title + strings.Repeat(" ", gap) + tail

	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(content)
}

// bufferBar renders the stream buffer fill level, one block per slot.
func bufferBar(buffered, slots int) string {
	if slots <= 0 {
		return ""
	}
	buffered = min(max(buffered, 0), slots)
	return bufferFilled().Render(strings.Repeat(filledBlock, buffered)) +
		bufferEmpty().Render(strings.Repeat(emptyBlock, slots-buffered))
}

