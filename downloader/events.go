package downloader

// EventType classifies messages emitted while a session runs.
type EventType string

const (
	EventStart    EventType = "start"
	EventProgress EventType = "progress"
	EventWarning  EventType = "warning"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// Event is one entry of a session's ordered progress sequence. For a
// given session id, events arrive in non-decreasing progress order and in
// fixed stage order; 100 appears only with the Complete stage.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Filename  string    `json:"filename,omitempty"`
	Stage     Stage     `json:"stage,omitempty"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message,omitempty"`
}
