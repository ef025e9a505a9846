package player

import (
	"sync"

	"github.com/llehouerou/sdplay/internal/playlist"
)

// Mock is a test double for Controller. It applies state changes
// synchronously and records the calls it receives.
type Mock struct {
	mu sync.Mutex

	state   State
	now     *NowPlaying
	list    *playlist.Playlist
	playErr error
	stats   Stats

	playCalls   []string
	sourceCalls []string
	indexCalls  []int
	skipCalls   int
	closed      bool

	sub *Subscription
}

// NewMock creates a new mock controller for testing.
func NewMock() *Mock {
	return &Mock{state: Idle, sub: newSubscription()}
}

func (m *Mock) Play(t playlist.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls = append(m.playCalls, t.Path)
	if m.playErr != nil {
		m.state = Idle
		return m.playErr
	}
	m.list = nil
	m.now = &NowPlaying{Name: t.DisplayName(), Track: t, Index: -1}
	m.state = Playing
	return nil
}

func (m *Mock) PlayList(l *playlist.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l == nil || l.Len() == 0 {
		return ErrEmptyPlaylist
	}
	if m.playErr != nil {
		return m.playErr
	}
	t, ok := l.Next()
	if !ok {
		return ErrEmptyPlaylist
	}
	m.list = l
	m.playCalls = append(m.playCalls, t.Path)
	m.now = &NowPlaying{Name: t.DisplayName(), Track: t, Index: l.CurrentIndex()}
	m.state = Playing
	return nil
}

func (m *Mock) PlayIndex(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexCalls = append(m.indexCalls, i)
	if m.list == nil {
		return ErrNoPlaylist
	}
	t, err := m.list.Jump(i)
	if err != nil {
		return err
	}
	m.playCalls = append(m.playCalls, t.Path)
	m.now = &NowPlaying{Name: t.DisplayName(), Track: t, Index: i}
	m.state = Playing
	return nil
}

func (m *Mock) PlaySource(name string, src Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourceCalls = append(m.sourceCalls, name)
	_ = src.Close()
	m.list = nil
	m.now = &NowPlaying{Name: name, Index: -1}
	m.state = Playing
	return nil
}

func (m *Mock) Skip() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipCalls++
	if m.list == nil {
		m.state, m.now = Idle, nil
		return nil
	}
	t, ok := m.list.Skip()
	if !ok {
		m.state, m.now = Idle, nil
		return nil
	}
	m.now = &NowPlaying{Name: t.DisplayName(), Track: t, Index: m.list.CurrentIndex()}
	m.state = Playing
	return nil
}

func (m *Mock) SetRepeat(mode playlist.RepeatMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.list == nil {
		return ErrNoPlaylist
	}
	m.list.SetRepeat(mode)
	return nil
}

func (m *Mock) SetShuffle(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.list == nil {
		return ErrNoPlaylist
	}
	m.list.SetShuffle(on)
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.CanPause() {
		m.state = Paused
	}
	return nil
}

func (m *Mock) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.CanResume() {
		m.state = Playing
	}
	return nil
}

func (m *Mock) Toggle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case Playing:
		m.state = Paused
	case Paused:
		m.state = Playing
	case Idle, Loading, Draining, Stopped:
		// Nothing to toggle
	}
	return nil
}

func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, m.now = Idle, nil
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		m.sub.close()
	}
	m.state, m.now = Stopped, nil
	return nil
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Current() (NowPlaying, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.now == nil {
		return NowPlaying{}, false
	}
	return *m.now, true
}

func (m *Mock) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.State = m.state
	return s
}

func (m *Mock) Subscribe() *Subscription { return m.sub }

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetStats(s Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = s
}

func (m *Mock) PlayCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.playCalls...)
}

func (m *Mock) SourceCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sourceCalls...)
}

func (m *Mock) IndexCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.indexCalls...)
}

func (m *Mock) SkipCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skipCalls
}

// Playlist returns the playlist handed to PlayList.
func (m *Mock) Playlist() *playlist.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list
}

// EmitState pushes a state change to the subscription.
func (m *Mock) EmitState(e StateChange) { m.sub.sendState(e) }

// EmitTrack pushes a track change to the subscription.
func (m *Mock) EmitTrack(e TrackChange) { m.sub.sendTrack(e) }

// EmitError pushes an error event to the subscription.
func (m *Mock) EmitError(e ErrorEvent) { m.sub.sendError(e) }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
