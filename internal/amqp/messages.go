package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"finovo/internal/core"
)

// Ledger event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// LedgerEvent announces a change to one ledger row. It carries ids only;
// the worker reloads the row from the database.
type LedgerEvent struct {
	Kind      core.EntryKind `json:"kind"`
	Action    string         `json:"action"`
	UserID    string         `json:"user_id"`
	EntityID  string         `json:"entity_id"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewLedgerEvent stamps an event with the current time.
func NewLedgerEvent(kind core.EntryKind, action, userID, entityID string) *LedgerEvent {
	return &LedgerEvent{
		Kind:      kind,
		Action:    action,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes an event and rejects one without a user.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" || msg.Kind == "" {
		return nil, errors.New("ledger event missing kind or user_id")
	}
	return &msg, nil
}
