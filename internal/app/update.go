package app

import (
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sdplay/internal/errmsg"
	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		t := time.Time(msg)
		if !m.lastTick.IsZero() && m.Service.State() == player.Playing {
			m.Elapsed += t.Sub(m.lastTick)
		}
		m.lastTick = t
		return m, TickCmd()

	case ServiceTrackChangedMsg:
		m.Elapsed = 0
		if i := slices.Index(m.visible, msg.Index); msg.Index >= 0 && i >= 0 {
			m.Cursor = i
		}
		return m, m.WatchServiceEvents()

	case ServiceStateChangedMsg:
		if msg.Current == player.Idle {
			m.Elapsed = 0
		}
		return m, m.WatchServiceEvents()

	case ServiceUnderrunMsg:
		return m, m.WatchServiceEvents()

	case ServiceErrorMsg:
		m.Status = errmsg.FormatWith(errmsg.OpPlaybackStart, msg.Path, msg.Err)
		return m, m.WatchServiceEvents()

	case ServiceClosedMsg:
		return m, tea.Quit

	case StderrMsg:
		m.Status = msg.Line
		return m, m.WatchStderr()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		_ = m.Service.Stop()
		return m, tea.Quit
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	var err error
	op := errmsg.OpPlaybackStart

	switch msg.String() {
	case "q":
		_ = m.Service.Stop()
		return m, tea.Quit
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "esc":
		m.filter.SetValue("")
		m.refilter()
		return m, nil
	case "up", "k":
		m.Cursor = max(m.Cursor-1, 0)
	case "down", "j":
		m.Cursor = min(m.Cursor+1, max(len(m.visible)-1, 0))
	case "enter":
		if len(m.visible) == 0 {
			return m, nil
		}
		op = errmsg.OpPlayTrack
		err = m.Service.PlayTrack(m.visible[m.Cursor] + 1)
	case "a":
		err = m.Service.PlayAll(m.Options.Shuffle, m.Options.Repeat)
	case " ":
		err = m.Service.Toggle()
	case "s":
		err = m.Service.Stop()
	case "n":
		err = m.Service.Next()
	case "r":
		op = errmsg.OpPlaybackMode
		var mode playlist.RepeatMode
		if mode, err = m.Service.CycleRepeatMode(); err == nil {
			m.Options.Repeat = mode
		}
	case "z":
		op = errmsg.OpPlaybackMode
		var on bool
		if on, err = m.Service.ToggleShuffle(); err == nil {
			m.Options.Shuffle = on
		}
	default:
		return m, nil
	}

	if err != nil {
		m.Status = errmsg.Format(op, err)
	} else {
		m.Status = ""
	}
	m.persist()
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		fallthrough
	case "enter":
		m.filtering = false
		m.filter.Blur()
		m.refilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refilter()
	return m, cmd
}
