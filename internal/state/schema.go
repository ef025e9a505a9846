package state

import "database/sql"

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	return withTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS session_state (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				selected_path TEXT,
				repeat_mode INTEGER NOT NULL DEFAULT 0,
				shuffle INTEGER NOT NULL DEFAULT 0,
				updated_at INTEGER NOT NULL
			);
		`)
		if err != nil {
			return err
		}

		// Set initial version if not exists
		_, err = tx.Exec(`
			INSERT OR IGNORE INTO schema_version (version) VALUES (?)
		`, currentSchemaVersion)
		return err
	})
}
