package state

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/llehouerou/sdplay/internal/playlist"
)

// setupTestDB creates a file-backed SQLite database with the schema initialized.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to init schema: %v", err)
	}
	return db
}

func TestGetSession_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s, err := getSession(db)
	if err != nil {
		t.Fatalf("getSession failed: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil session on empty db, got %+v", s)
	}
}

func TestSaveAndGetSession(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	want := Session{SelectedPath: "album/02.mp3", Repeat: playlist.RepeatOne, Shuffle: true}
	if err := saveSession(db, want); err != nil {
		t.Fatalf("saveSession failed: %v", err)
	}

	got, err := getSession(db)
	if err != nil {
		t.Fatalf("getSession failed: %v", err)
	}
	if got == nil || *got != want {
		t.Errorf("getSession() = %+v, want %+v", got, want)
	}
}

func TestSaveSession_Overwrites(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := saveSession(db, Session{SelectedPath: "a.wav", Shuffle: true}); err != nil {
		t.Fatalf("saveSession failed: %v", err)
	}
	if err := saveSession(db, Session{Repeat: playlist.RepeatAll}); err != nil {
		t.Fatalf("saveSession failed: %v", err)
	}

	got, err := getSession(db)
	if err != nil {
		t.Fatalf("getSession failed: %v", err)
	}
	want := Session{Repeat: playlist.RepeatAll}
	if *got != want {
		t.Errorf("getSession() = %+v, want %+v", got, want)
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM session_state`).Scan(&rows); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("rows = %d, want 1", rows)
	}
}

func TestGetSession_UnknownRepeatMode(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := saveSession(db, Session{Repeat: playlist.RepeatMode(9)}); err != nil {
		t.Fatalf("saveSession failed: %v", err)
	}
	got, err := getSession(db)
	if err != nil {
		t.Fatalf("getSession failed: %v", err)
	}
	if got.Repeat != playlist.RepeatOff {
		t.Errorf("Repeat = %v, want off", got.Repeat)
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := initSchema(db); err != nil {
		t.Fatalf("second initSchema failed: %v", err)
	}
	var version int
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("version query failed: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestManager_CloseFlushesPendingSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "state.db")

	m, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	m.SaveSession(Session{SelectedPath: "first.wav"})
	m.SaveSession(Session{SelectedPath: "second.wav", Repeat: playlist.RepeatAll})
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	got, err := m.GetSession()
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	want := Session{SelectedPath: "second.wav", Repeat: playlist.RepeatAll}
	if got == nil || *got != want {
		t.Errorf("GetSession() = %+v, want %+v", got, want)
	}
}

func TestMock(t *testing.T) {
	m := NewMock(nil)
	if s, _ := m.GetSession(); s != nil {
		t.Errorf("expected nil session, got %+v", s)
	}

	m.SaveSession(Session{Shuffle: true})
	s, _ := m.GetSession()
	if s == nil || !s.Shuffle {
		t.Errorf("GetSession() = %+v, want shuffle on", s)
	}
	if m.Saves() != 1 {
		t.Errorf("Saves() = %d, want 1", m.Saves())
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	errBoom := errors.New("boom")
	err := withTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (42)`); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("withTx() = %v, want %v", err, errBoom)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version WHERE version = 42`).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", n)
	}
}
