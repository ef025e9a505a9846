package state

import "sync"

// Store is the part of Manager the interactive player uses.
type Store interface {
	GetSession() (*Session, error)
	SaveSession(s Session)
}

// Verify Manager implements Store at compile time.
var _ Store = (*Manager)(nil)

// Mock is an in-memory Store for tests.
type Mock struct {
	mu      sync.Mutex
	session *Session
	saves   int
}

// NewMock creates a store holding s, which may be nil.
func NewMock(s *Session) *Mock {
	return &Mock{session: s}
}

func (m *Mock) GetSession() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

func (m *Mock) SaveSession(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	m.saves++
}

// Saves returns how many times SaveSession was called.
func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
