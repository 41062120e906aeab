package amqp

import (
	"encoding/json"
	"time"
)

// EventAction says what happened to the transaction the event points at.
type EventAction string

const (
	ActionCreated EventAction = "created"
	ActionDeleted EventAction = "deleted"
)

// TransactionEvent is the lightweight message published on transaction
// writes. It carries only the id and action; the worker fetches the full
// row from the database before mirroring it.
type TransactionEvent struct {
	TransactionID int64       `json:"transactionId"`
	Action        EventAction `json:"action"`
	Timestamp     time.Time   `json:"timestamp"`
}

func NewTransactionEvent(transactionID int64, action EventAction) *TransactionEvent {
	return &TransactionEvent{
		TransactionID: transactionID,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON parses an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
