package store

import (
	"context"
	"database/sql"
)

// SaveDownload inserts or refreshes the archived record for a session id.
func (s *Store) SaveDownload(ctx context.Context, rec *DownloadRecord) error {
	query := `
	INSERT INTO downloads (session_id, url, filename, quality, download_type, stage, progress, error, size_bytes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		stage = excluded.stage,
		progress = excluded.progress,
		error = excluded.error,
		size_bytes = excluded.size_bytes;
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.SessionID, rec.URL, rec.Filename, rec.Quality, rec.DownloadType,
		rec.Stage, rec.Progress, rec.Error, rec.SizeBytes,
	)
	return err
}

// GetDownload fetches one archived session by its session id.
func (s *Store) GetDownload(ctx context.Context, sessionID string) (*DownloadRecord, error) {
	query := `SELECT id, session_id, url, filename, quality, download_type, stage, progress, error, size_bytes, created_at
	          FROM downloads WHERE session_id = ?`
	row := s.db.QueryRowContext(ctx, query, sessionID)
	return scanDownload(row)
}

// ListDownloads returns the most recent archived sessions, newest first.
func (s *Store) ListDownloads(ctx context.Context, limit int) ([]*DownloadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, session_id, url, filename, quality, download_type, stage, progress, error, size_bytes, created_at
	          FROM downloads ORDER BY id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*DownloadRecord
	for rows.Next() {
		rec, err := scanDownload(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteDownload removes one archived session.
func (s *Store) DeleteDownload(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM downloads WHERE session_id = ?", sessionID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDownload(row rowScanner) (*DownloadRecord, error) {
	var rec DownloadRecord
	var quality, downloadType, errMsg sql.NullString
	err := row.Scan(&rec.ID, &rec.SessionID, &rec.URL, &rec.Filename,
		&quality, &downloadType, &rec.Stage, &rec.Progress, &errMsg,
		&rec.SizeBytes, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Quality = quality.String
	rec.DownloadType = downloadType.String
	rec.Error = errMsg.String
	return &rec, nil
}
