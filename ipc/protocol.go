package ipc

import "encoding/json"

// Message types broadcast to connected clients.
const (
	MsgDownloadEvent = "download_event"
)

type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewMessage(payload any, msgType string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{Type: msgType, Data: data}
	return json.Marshal(msg)
}
