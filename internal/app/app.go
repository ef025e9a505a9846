package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sdplay/internal/playback"
	"github.com/llehouerou/sdplay/internal/player"
	"github.com/llehouerou/sdplay/internal/playlist"
	"github.com/llehouerou/sdplay/internal/state"
)

// Options are the playlist defaults used by the "a" key.
type Options struct {
	Shuffle bool
	Repeat  playlist.RepeatMode
}

// Model is the bubbletea model of the interactive player.
type Model struct {
	Service playback.Service
	Tracks  []playlist.Track
	Options Options

	// Cursor indexes visible, the library positions that pass the filter.
	Cursor  int
	visible []int
	filter  textinput.Model
	// filtering is set while the filter input has focus.
	filtering bool

	Width  int
	Height int

	// Status is the last error or native library message.
	Status string

	Elapsed  time.Duration // play time of the current track
	lastTick time.Time

	sub    *player.Subscription
	stderr <-chan string
	store  state.Store
}

// New creates the model. stderrLines may be nil.
func New(svc playback.Service, opts Options, stderrLines <-chan string) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter tracks"
	ti.CharLimit = 64

	m := Model{
		Service: svc,
		Tracks:  svc.ListTracks(),
		Options: opts,
		filter:  ti,
		sub:     svc.Subscribe(),
		stderr:  stderrLines,
	}
	m.refilter()
	return m
}

// WithStore restores the saved session from store and saves to it from
// then on. A session that cannot be read is ignored.
func (m Model) WithStore(store state.Store) Model {
	m.store = store
	saved, err := store.GetSession()
	if err != nil || saved == nil {
		return m
	}
	m.Options.Repeat = saved.Repeat
	m.Options.Shuffle = saved.Shuffle
	for row, i := range m.visible {
		if m.Tracks[i].Path == saved.SelectedPath {
			m.Cursor = row
			break
		}
	}
	return m
}

func (m Model) persist() {
	if m.store == nil {
		return
	}
	s := state.Session{Repeat: m.Options.Repeat, Shuffle: m.Options.Shuffle}
	if len(m.visible) > 0 {
		s.SelectedPath = m.Tracks[m.visible[m.Cursor]].Path
	}
	m.store.SaveSession(s)
}

// refilter recomputes the visible tracks and keeps the cursor in range.
func (m *Model) refilter() {
	m.visible = matches(m.Tracks, m.filter.Value())
	m.Cursor = max(min(m.Cursor, len(m.visible)-1), 0)
}

// matches returns the library positions whose name or path contains query,
// ignoring case. An empty query matches every track.
func matches(tracks []playlist.Track, query string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]int, 0, len(tracks))
	for i, t := range tracks {
		if query == "" ||
			strings.Contains(strings.ToLower(t.DisplayName()), query) ||
			strings.Contains(strings.ToLower(t.Path), query) {
			out = append(out, i)
		}
	}
	return out
}

// Init starts the event watchers and the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchServiceEvents(), m.WatchStderr(), TickCmd())
}
