package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickCmd returns a command that sends TickMsg after a second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchServiceEvents returns a command that waits for the next controller
// event and converts it to a tea.Msg.
func (m Model) WatchServiceEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg{Previous: e.Previous, Current: e.Current}
		case e := <-sub.TrackChanged:
			return ServiceTrackChangedMsg{Name: e.Current.Name, Index: e.Current.Index}
		case e := <-sub.Underrun:
			return ServiceUnderrunMsg{Total: e.Total}
		case e := <-sub.Error:
			return ServiceErrorMsg{Operation: e.Operation, Path: e.Path, Err: e.Err}
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// WatchStderr returns a command that waits for stderr output from native
// libraries.
func (m Model) WatchStderr() tea.Cmd {
	if m.stderr == nil {
		return nil
	}
	ch := m.stderr
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil // Channel closed
		}
		return StderrMsg{Line: line}
	}
}
