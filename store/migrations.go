package store

import "log"

func (s *Store) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS downloads (
        id INTEGER PRIMARY KEY AUTOINCREMENT,

        session_id TEXT NOT NULL,  -- registry session id
        url TEXT NOT NULL,         -- the URL the user submitted
        filename TEXT,

        quality TEXT,              -- human quality description
        download_type TEXT,        -- 'progressive', 'merge', 'audio'

        stage TEXT NOT NULL,       -- terminal stage: 'Complete' or 'Error'
        progress INTEGER DEFAULT 0,
        error TEXT,
        size_bytes INTEGER DEFAULT 0,

        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,

        UNIQUE(session_id)
    );
    `

	_, err := s.db.Exec(query)
	if err != nil {
		log.Printf("ERROR: Database migration failed: %v", err)
		return err
	}

	return nil
}
