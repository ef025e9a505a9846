// Package state persists what the interactive player restores on start.
package state

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/sdplay/internal/playlist"
)

const (
	appName      = "sdplay"
	dbFileName   = "state.db"
	saveDebounce = 500 * time.Millisecond
)

// Session is the interactive player's state between runs.
type Session struct {
	SelectedPath string // track under the cursor
	Repeat       playlist.RepeatMode
	Shuffle      bool
}

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Session
}

// Open opens the state database in the XDG data directory.
func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens or creates the state database at path.
func OpenPath(dbPath string) (*Manager, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

// Close flushes a pending save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending state
	var err error
	if pending != nil {
		err = saveSession(m.db, *pending)
	}

	return errors.Join(err, m.db.Close())
}

// GetSession returns the saved session, or nil when none was saved.
func (m *Manager) GetSession() (*Session, error) {
	return getSession(m.db)
}

// SaveSession stores s after a short quiet period. Only the last of a burst
// of calls is written.
func (m *Manager) SaveSession(s Session) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &s

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			_ = saveSession(m.db, *pending)
		}
	})
}

func getSession(db *sql.DB) (*Session, error) {
	var selected sql.NullString
	var repeat int
	var shuffle bool
	row := db.QueryRow(`SELECT selected_path, repeat_mode, shuffle FROM session_state WHERE id = 1`)
	err := row.Scan(&selected, &repeat, &shuffle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	mode := playlist.RepeatMode(repeat)
	switch mode {
	case playlist.RepeatOff, playlist.RepeatOne, playlist.RepeatAll:
	default:
		mode = playlist.RepeatOff
	}
	return &Session{
		SelectedPath: selected.String,
		Repeat:       mode,
		Shuffle:      shuffle,
	}, nil
}

func saveSession(db *sql.DB, s Session) error {
	var selected any
	if s.SelectedPath != "" {
		selected = s.SelectedPath
	}
	_, err := db.Exec(`
		INSERT INTO session_state (id, selected_path, repeat_mode, shuffle, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			selected_path = excluded.selected_path,
			repeat_mode = excluded.repeat_mode,
			shuffle = excluded.shuffle,
			updated_at = excluded.updated_at
	`, selected, int(s.Repeat), s.Shuffle, time.Now().Unix())
	return err
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
