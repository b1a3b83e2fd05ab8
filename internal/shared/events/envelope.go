package events

import "time"

// Envelope is the notification record emitted once per successful mutation.
// Delivery/consumption belongs to outside observers; the core never retries.
type Envelope struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	SourceService string    `json:"source_service"`
	OccurredAtUTC time.Time `json:"occurred_at_utc"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	ActorID       string    `json:"actor_id"`
	Payload       any       `json:"payload"`
}

// Notification type tags, one per mutating operation.
const (
	TypeProductCreated    = "ProductCreated"
	TypeTransferInitiated = "TransferInitiated"
	TypeTransferAccepted  = "TransferAccepted"
	TypeProductReceived   = "ProductReceived"
	TypeNoteAdded         = "NoteAdded"
	TypeAccessGranted     = "AccessGranted"
	TypeAccessRevoked     = "AccessRevoked"
	TypeRoleAssigned      = "RoleAssigned"
	TypeRoleRevoked       = "RoleRevoked"
)
