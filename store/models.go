package store

import "time"

// DownloadRecord is the archived form of a finished download session.
// Live sessions stay in the registry; this is the write-behind history
// consulted by the /api/downloads endpoint.
type DownloadRecord struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	URL          string    `json:"url"`
	Filename     string    `json:"filename"`
	Quality      string    `json:"quality,omitempty"`
	DownloadType string    `json:"download_type,omitempty"`
	Stage        string    `json:"stage"`
	Progress     int       `json:"progress"`
	Error        string    `json:"error,omitempty"`
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
