package playerbar

import "github.com/charmbracelet/lipgloss"

const (
	playSymbol    = "▶"
	pauseSymbol   = "⏸"
	repeatSymbol  = "⟳"
	shuffleSymbol = "⤮"
	filledBlock   = "▓"
	emptyBlock    = "░"
	separator     = "   "
)

var (
	accent  = lipgloss.Color("#a78bfa")
	fgBase  = lipgloss.Color("#c0c0c0")
	fgMuted = lipgloss.Color("#808080")
	subtle  = lipgloss.Color("#585858")
	warning = lipgloss.Color("#f1a208")
)

func barStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(subtle)
}

func titleStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(fgBase).Bold(true) }

func metaStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(fgMuted) }

func timeStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(fgMuted) }

func warnStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(warning) }

func bufferFilled() lipgloss.Style { return lipgloss.NewStyle().Foreground(accent) }

func bufferEmpty() lipgloss.Style { return lipgloss.NewStyle().Foreground(subtle) }
