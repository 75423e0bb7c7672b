package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChangeOp names the ledger mutation a message describes.
type ChangeOp string

const (
	OpAdd    ChangeOp = "add"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
	// OpSettings covers bank amount and theme writes.
	OpSettings ChangeOp = "settings"
)

// Valid reports whether op is a known operation.
func (op ChangeOp) Valid() bool {
	switch op {
	case OpAdd, OpUpdate, OpDelete, OpSettings:
		return true
	}
	return false
}

// ChangeMessage announces that the ledger changed. It carries no record
// data; consumers read the current snapshot from the shared store.
type ChangeMessage struct {
	Op        ChangeOp  `json:"op"`
	ID        int64     `json:"id,omitempty"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage creates a message stamped with the current time.
func NewChangeMessage(op ChangeOp, id, version int64) *ChangeMessage {
	return &ChangeMessage{
		Op:        op,
		ID:        id,
		Version:   version,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes and validates a message.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Op.Valid() {
		return nil, fmt.Errorf("unknown change op %q", msg.Op)
	}
	return &msg, nil
}
