package amqp

import (
	"encoding/json"
	"time"
)

// Mutation actions carried on the event stream.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Entity kinds carried on the event stream.
const (
	EntityCustomer = "customer"
	EntityExpense  = "expense"
)

// MutationMessage is a compact record of one collection mutation.
// It carries only identifiers; consumers that need the full record
// read it from the store.
type MutationMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMutationMessage(entity, action, id string) *MutationMessage {
	return &MutationMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *MutationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationMessageFromJSON creates a message from JSON bytes.
func MutationMessageFromJSON(data []byte) (*MutationMessage, error) {
	var msg MutationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
