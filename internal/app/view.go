package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/sdplay/internal/ui/playerbar"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa")).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#303030"))
	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c75"))
)

const helpLine = "enter play · / filter · a play all · space pause · s stop · n next · r repeat · z shuffle · q quit"

// View renders the track list, the status line and the player bar.
func (m Model) View() string {
	width := m.Width
	if width <= 0 {
		width = 80
	}

	bar := playerbar.Render(playerbar.NewState(m.Service, len(m.Tracks), m.Elapsed), width)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("sdplay · %d tracks", len(m.Tracks))))
	b.WriteString("\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	listHeight := m.listHeight(bar != "")
	playing := -1
	if now, ok := m.Service.CurrentTrack(); ok {
		playing = now.Index
	}
	start := max(min(m.Cursor-listHeight/2, len(m.visible)-listHeight), 0)
	end := min(start+listHeight, len(m.visible))

	switch {
	case len(m.Tracks) == 0:
		b.WriteString(mutedStyle.Render("  no audio files found"))
		b.WriteString("\n")
	case len(m.visible) == 0:
		b.WriteString(mutedStyle.Render("  no match"))
		b.WriteString("\n")
	}
	for row := start; row < end; row++ {
		i := m.visible[row]
		t := m.Tracks[i]
		marker := "  "
		if i == playing {
			marker = "▶ "
		}
		size := humanize.IBytes(uint64(max(t.Size, 0)))
		name := ansi.Truncate(fmt.Sprintf("%s%2d. %s", marker, i+1, t.DisplayName()), max(width-len(size)-2, 8), "…")
		gap := max(width-lipgloss.Width(name)-lipgloss.Width(size), 1)
		line := name + strings.Repeat(" ", gap) + mutedStyle.Render(size)
		switch {
		case row == m.Cursor:
			line = cursorStyle.Render(line)
		case i == playing:
			line = playingStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString(errorStyle.Render(ansi.Truncate(m.Status, width, "…")))
	} else {
		b.WriteString(mutedStyle.Render(ansi.Truncate(helpLine, width, "…")))
	}
	b.WriteString("\n")
	b.WriteString(bar)
	return b.String()
}

func (m Model) listHeight(withBar bool) int {
	if m.Height <= 0 {
		return len(m.visible)
	}
	h := m.Height - 2 // header + status line
	if m.filtering || m.filter.Value() != "" {
		h--
	}
	if withBar {
		h -= playerbar.Height()
	}
	return max(h, 1)
}
