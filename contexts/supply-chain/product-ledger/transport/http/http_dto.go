package httptransport

import "time"

// CreateProductRequest registers a new tracked item.
type CreateProductRequest struct {
	ProductID string `json:"product_id"`
	Metadata  string `json:"metadata"`
}

// ProductResponse is the custody state returned by mutations and the public
// summary read.
type ProductResponse struct {
	ProductID        string    `json:"product_id"`
	OwnerID          string    `json:"owner_id"`
	OwnerRole        string    `json:"owner_role"`
	Status           string    `json:"status"`
	PendingRecipient string    `json:"pending_recipient,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// SummaryResponse is the always-public subset of product state.
type SummaryResponse struct {
	ProductID string `json:"product_id"`
	OwnerID   string `json:"owner_id"`
	OwnerRole string `json:"owner_role"`
	Status    string `json:"status"`
}

type InitiateTransferRequest struct {
	To string `json:"to"`
}

type AddNoteRequest struct {
	Note string `json:"note"`
}

type GrantViewRequest struct {
	Viewer string `json:"viewer"`
}

type ViewGrantResponse struct {
	ProductID string `json:"product_id"`
	Viewer    string `json:"viewer"`
	Granted   bool   `json:"granted"`
}

type HistoryEntryDTO struct {
	EntryID   string    `json:"entry_id"`
	Sequence  int       `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	Metadata  string    `json:"metadata"`
}

type HistoryResponse struct {
	ProductID string            `json:"product_id"`
	Entries   []HistoryEntryDTO `json:"entries"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
