package amqp

import (
	"encoding/json"
	"time"
)

// Entry event actions.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// EntryEventMessage is a lightweight change notification. It carries
// only the entry ID and action; consumers fetch the full record when
// they need it (deleted entries are gone by then, which is fine for
// the archive).
type EntryEventMessage struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntryEventMessage creates an event for an entry change.
func NewEntryEventMessage(id int64, action string) *EntryEventMessage {
	return &EntryEventMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventMessageFromJSON creates a message from JSON bytes
func EntryEventMessageFromJSON(data []byte) (*EntryEventMessage, error) {
	var msg EntryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
