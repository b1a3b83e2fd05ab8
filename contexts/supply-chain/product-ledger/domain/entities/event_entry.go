package entities

import "time"

// EventAction tags one audit history entry.
type EventAction string

const (
	ActionCreated           EventAction = "Created"
	ActionTransferInitiated EventAction = "TransferInitiated"
	ActionTransferAccepted  EventAction = "TransferAccepted"
	ActionReceived          EventAction = "Received"
	ActionNote              EventAction = "Note"
)

// EventEntry is one immutable audit record. Entries only ever append, in
// strict chronological order; Sequence is the 1-based position within the
// product's history.
type EventEntry struct {
	EntryID   string
	ProductID string
	Sequence  int
	Timestamp time.Time
	ActorID   string
	Action    EventAction
	Metadata  string
}
