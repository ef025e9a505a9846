package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/sdplay/internal/pcm"
	"github.com/llehouerou/sdplay/internal/playback"
	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
	"github.com/llehouerou/sdplay/internal/state"
)

func newTestModel(t *testing.T) (*player.Mock, Model) {
	t.Helper()
	alpha := playlist.NewTrack("music/a.wav")
	alpha.Title, alpha.Size = "Alpha", 2048
	tracks := []playlist.Track{alpha, playlist.NewTrack("music/b.mp3"), playlist.NewTrack("music/c.wav")}
	p := player.NewMock()
	svc := playback.New(p, tracks, pcm.Format{SampleRate: 16000, Channels: 2}, 160)
	return p, New(svc, Options{Repeat: playlist.RepeatAll}, nil)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestModel_CursorMovement(t *testing.T) {
	_, m := newTestModel(t)

	m = press(m, "down", "down", "down")
	assert.Equal(t, 2, m.Cursor, "cursor stops at the last track")

	m = press(m, "up", "k", "k")
	assert.Equal(t, 0, m.Cursor)

	m = press(m, "j")
	assert.Equal(t, 1, m.Cursor)
}

func TestModel_EnterPlaysTrackUnderCursor(t *testing.T) {
	p, m := newTestModel(t)

	m = press(m, "down", "enter")

	assert.Equal(t, []string{"music/b.mp3"}, p.PlayCalls())
	assert.Empty(t, m.Status)
}

func TestModel_EnterJumpsWithinPlaylist(t *testing.T) {
	p, m := newTestModel(t)

	m = press(m, "a", "down", "down", "enter")

	assert.Equal(t, []int{2}, p.IndexCalls())
	assert.Equal(t, playlist.RepeatAll, p.Playlist().Repeat(), "playlist stays loaded")
	assert.Empty(t, m.Status)
}

func TestModel_PlayAllAndModes(t *testing.T) {
	p, m := newTestModel(t)

	m = press(m, "a")
	require.NotNil(t, p.Playlist())
	assert.Equal(t, playlist.RepeatAll, p.Playlist().Repeat(), "options apply to the playlist")

	m = press(m, "r")
	assert.Equal(t, playlist.RepeatOne, p.Playlist().Repeat())

	m = press(m, "z")
	assert.True(t, p.Playlist().Shuffle())

	m = press(m, "n")
	assert.Equal(t, 1, p.SkipCalls())
	assert.Empty(t, m.Status)
}

func TestModel_TransportKeys(t *testing.T) {
	p, m := newTestModel(t)
	m = press(m, "enter")

	m = press(m, " ")
	assert.Equal(t, player.Paused, p.State())
	m = press(m, " ")
	assert.Equal(t, player.Playing, p.State())

	press(m, "s")
	assert.Equal(t, player.Idle, p.State())
}

func TestModel_ErrorsGoToStatus(t *testing.T) {
	p, m := newTestModel(t)

	m = press(m, "r")
	assert.Contains(t, m.Status, "Failed to change playback mode")

	p.SetPlayError(errors.New("device busy"))
	m = press(m, "enter")
	assert.Equal(t, "Failed to play track: device busy", m.Status)

	p.SetPlayError(nil)
	m = press(m, "enter")
	assert.Empty(t, m.Status, "a successful command clears the status")
}

func TestModel_Filter(t *testing.T) {
	p, m := newTestModel(t)

	m = press(m, "/", "b")
	assert.True(t, m.filtering)
	assert.Equal(t, []int{1}, m.visible)

	m = press(m, "q")
	assert.Empty(t, m.visible, "keys are typed into the filter while it has focus")
	m = press(m, "esc")
	assert.False(t, m.filtering)
	assert.Len(t, m.visible, 3)

	m = press(m, "/", "A", "L", "enter")
	assert.False(t, m.filtering)
	assert.Equal(t, []int{0}, m.visible, "matches names ignoring case")

	m = press(m, "esc", "/", "c", ".", "w", "enter", "enter")
	assert.Equal(t, []string{"music/c.wav"}, p.PlayCalls(), "enter plays the filtered track")
	assert.Contains(t, m.View(), "c.w")

	m = press(m, "esc")
	assert.Len(t, m.visible, 3)
	assert.Zero(t, m.Cursor)
}

func TestMatches(t *testing.T) {
	alpha := playlist.NewTrack("rock/a.wav")
	alpha.Title = "Alpha"
	tracks := []playlist.Track{alpha, playlist.NewTrack("jazz/b.mp3")}

	assert.Equal(t, []int{0, 1}, matches(tracks, ""))
	assert.Equal(t, []int{0, 1}, matches(tracks, "  "))
	assert.Equal(t, []int{0}, matches(tracks, "ALP"))
	assert.Equal(t, []int{1}, matches(tracks, "jazz"), "paths are searched too")
	assert.Empty(t, matches(tracks, "zzz"))
}

func TestModel_Store(t *testing.T) {
	p, m := newTestModel(t)
	store := state.NewMock(&state.Session{
		SelectedPath: "music/c.wav",
		Repeat:       playlist.RepeatOne,
		Shuffle:      true,
	})

	m = m.WithStore(store)
	assert.Equal(t, 2, m.Cursor, "cursor restored to the saved track")
	assert.Equal(t, Options{Shuffle: true, Repeat: playlist.RepeatOne}, m.Options)

	m = press(m, "a", "r", "up")
	assert.Equal(t, playlist.RepeatOff, p.Playlist().Repeat())

	saved, err := store.GetSession()
	require.NoError(t, err)
	assert.Equal(t, state.Session{SelectedPath: "music/b.mp3", Repeat: playlist.RepeatOff, Shuffle: true}, *saved)
	assert.Equal(t, 3, store.Saves())
}

func TestModel_StoreWithoutSession(t *testing.T) {
	_, m := newTestModel(t)

	m = m.WithStore(state.NewMock(nil))

	assert.Zero(t, m.Cursor)
	assert.Equal(t, Options{Repeat: playlist.RepeatAll}, m.Options)
}

func TestModel_Quit(t *testing.T) {
	p, m := newTestModel(t)
	m = press(m, "enter")

	_, cmd := m.Update(key("q"))

	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Equal(t, player.Idle, p.State())
}

func TestModel_ServiceEvents(t *testing.T) {
	_, m := newTestModel(t)
	m.Elapsed = 5 * time.Second

	next, cmd := m.Update(ServiceTrackChangedMsg{Name: "c", Index: 2})
	m = next.(Model)
	assert.Equal(t, 2, m.Cursor, "cursor follows the playing track")
	assert.Zero(t, m.Elapsed)
	assert.NotNil(t, cmd, "watcher is re-armed")

	next, _ = m.Update(ServiceErrorMsg{Operation: "open", Path: "music/x.wav", Err: errors.New("malformed header")})
	m = next.(Model)
	assert.Equal(t, "Failed to start playback 'music/x.wav': malformed header", m.Status)

	next, _ = m.Update(StderrMsg{Line: "ALSA lib: underrun"})
	m = next.(Model)
	assert.Equal(t, "ALSA lib: underrun", m.Status)

	_, cmd = m.Update(ServiceClosedMsg{})
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModel_WatchServiceEvents(t *testing.T) {
	p, m := newTestModel(t)

	p.EmitState(player.StateChange{Previous: player.Idle, Current: player.Loading})
	msg := m.WatchServiceEvents()()

	assert.Equal(t, ServiceStateChangedMsg{Previous: player.Idle, Current: player.Loading}, msg)

	require.NoError(t, p.Close())
	assert.Equal(t, ServiceClosedMsg{}, m.WatchServiceEvents()())
}

func TestModel_WatchStderr(t *testing.T) {
	p := player.NewMock()
	svc := playback.New(p, nil, pcm.Format{SampleRate: 16000, Channels: 2}, 160)
	lines := make(chan string, 1)
	m := New(svc, Options{}, lines)

	lines <- "hello"
	assert.Equal(t, StderrMsg{Line: "hello"}, m.WatchStderr()())

	close(lines)
	assert.Nil(t, m.WatchStderr()())

	assert.Nil(t, New(svc, Options{}, nil).WatchStderr())
}

func TestModel_ElapsedOnlyWhilePlaying(t *testing.T) {
	p, m := newTestModel(t)
	start := time.Unix(1000, 0)

	next, _ := m.Update(TickMsg(start))
	m = next.(Model)
	m = press(m, "enter")
	next, _ = m.Update(TickMsg(start.Add(time.Second)))
	m = next.(Model)
	assert.Equal(t, time.Second, m.Elapsed)

	require.NoError(t, p.Pause())
	next, _ = m.Update(TickMsg(start.Add(3 * time.Second)))
	m = next.(Model)
	assert.Equal(t, time.Second, m.Elapsed, "paused time is not counted")
}

func TestModel_View(t *testing.T) {
	_, m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = next.(Model)

	idle := m.View()
	assert.Contains(t, idle, "3 tracks")
	assert.Contains(t, idle, "Alpha")
	assert.Contains(t, idle, "2.0 KiB")
	assert.Contains(t, idle, "q quit")
	assert.NotContains(t, idle, "▶")

	m = press(m, "a")
	playing := m.View()
	assert.Contains(t, playing, "▶  1. Alpha")
	assert.Contains(t, playing, "1/3")
	assert.LessOrEqual(t, strings.Count(playing, "\n")+1, 20)
}
