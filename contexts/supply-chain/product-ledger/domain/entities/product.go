package entities

import "time"

// Status tracks custody progress. The common path advances
// created -> in_transit -> received, with in_transit re-entrant: a fresh
// nomination by the current owner puts a received product back in transit.
type Status string

const (
	StatusCreated   Status = "created"
	StatusInTransit Status = "in_transit"
	StatusReceived  Status = "received"
)

// RoleManufacturer is the registry role required to create products. The
// snapshot stored on a product is whatever the registry reported at the last
// ownership change, so other role values pass through untyped.
const RoleManufacturer = "manufacturer"

// Product is one tracked item. Keyed by ProductID; created once, never
// deleted. PendingRecipient empty means no outstanding transfer.
type Product struct {
	ProductID        string
	OwnerID          string
	OwnerRole        string
	Status           Status
	PendingRecipient string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPendingTransfer reports whether a nominated recipient is outstanding.
func (p Product) HasPendingTransfer() bool {
	return p.PendingRecipient != ""
}
