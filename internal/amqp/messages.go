package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RowSyncMessage announces a stored expense row that should be mirrored to
// Google Sheets. It carries only the row id; the worker reads the row back
// from the database.
type RowSyncMessage struct {
	MessageID string    `json:"message_id"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRowSyncMessage creates a message for the given row id.
func NewRowSyncMessage(id int64) *RowSyncMessage {
	return &RowSyncMessage{
		MessageID: uuid.NewString(),
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RowSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RowSyncMessageFromJSON decodes a message body.
func RowSyncMessageFromJSON(data []byte) (*RowSyncMessage, error) {
	var msg RowSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
