package notify

import (
	"encoding/json"
	"time"
)

// DocumentChangedMessage announces that a document was rewritten. It carries
// only the key and new version; receivers reload the payload from the store.
type DocumentChangedMessage struct {
	Key       string    `json:"key"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDocumentChangedMessage creates a change message for the given document.
func NewDocumentChangedMessage(key string, version int64) *DocumentChangedMessage {
	return &DocumentChangedMessage{
		Key:       key,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DocumentChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DocumentChangedMessageFromJSON creates a message from JSON bytes
func DocumentChangedMessageFromJSON(data []byte) (*DocumentChangedMessage, error) {
	var msg DocumentChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
