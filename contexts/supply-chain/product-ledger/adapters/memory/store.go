package memory

import (
	"context"
	"sync"
	"time"

	"provenance/contexts/supply-chain/product-ledger/domain/entities"
	domainerrors "provenance/contexts/supply-chain/product-ledger/domain/errors"
	"provenance/contexts/supply-chain/product-ledger/ports"

	"github.com/google/uuid"
)

type grantKey struct {
	productID string
	viewer    string
}

// Store is an in-memory adapter implementing the ledger repository and
// view-grant ports. It is intended for tests and local development wiring.
// One mutex guards every mutation so each check-then-mutate sequence is
// atomic; a failed check leaves nothing changed.
type Store struct {
	mu       sync.Mutex
	products map[string]entities.Product
	history  map[string][]entities.EventEntry
	grants   map[grantKey]bool
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]entities.Product),
		history:  make(map[string][]entities.EventEntry),
		grants:   make(map[grantKey]bool),
	}
}

func (s *Store) GetProduct(_ context.Context, productID string) (entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	return product, nil
}

func (s *Store) ListHistory(_ context.Context, productID string) ([]entities.EventEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return nil, domainerrors.ErrProductNotFound
	}
	entries := s.history[productID]
	out := make([]entities.EventEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *Store) CreateProduct(_ context.Context, input ports.CreateProductInput) (entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[input.ProductID]; ok {
		return entities.Product{}, domainerrors.ErrProductAlreadyExists
	}

	product := entities.Product{
		ProductID: input.ProductID,
		OwnerID:   input.OwnerID,
		OwnerRole: input.OwnerRole,
		Status:    entities.StatusCreated,
		CreatedAt: input.Now,
		UpdatedAt: input.Now,
	}
	s.products[input.ProductID] = product
	s.appendEntry(input.ProductID, input.EntryID, input.Now, input.OwnerID, entities.ActionCreated, input.Metadata)
	// The creator is the only identity ever auto-granted history visibility.
	s.grants[grantKey{productID: input.ProductID, viewer: input.OwnerID}] = true
	return product, nil
}

func (s *Store) InitiateTransfer(_ context.Context, input ports.InitiateTransferInput) (entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[input.ProductID]
	if !ok {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	if product.OwnerID != input.ActorID {
		return entities.Product{}, domainerrors.ErrNotOwner
	}
	if product.HasPendingTransfer() && !input.AllowReoffer {
		return entities.Product{}, domainerrors.ErrTransferAlreadyPending
	}

	product.PendingRecipient = input.Recipient
	product.Status = entities.StatusInTransit
	product.UpdatedAt = input.Now
	s.products[input.ProductID] = product
	s.appendEntry(input.ProductID, input.EntryID, input.Now, input.ActorID, entities.ActionTransferInitiated, input.Recipient)
	return product, nil
}

func (s *Store) AcceptTransfer(_ context.Context, input ports.AcceptTransferInput) (entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[input.ProductID]
	if !ok {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	if !product.HasPendingTransfer() || product.PendingRecipient != input.ActorID {
		return entities.Product{}, domainerrors.ErrNoPendingTransferForCaller
	}

	product.OwnerID = input.ActorID
	product.OwnerRole = input.ActorRole
	product.PendingRecipient = ""
	product.UpdatedAt = input.Now
	s.products[input.ProductID] = product
	s.appendEntry(input.ProductID, input.EntryID, input.Now, input.ActorID, entities.ActionTransferAccepted, "")
	return product, nil
}

func (s *Store) MarkReceived(_ context.Context, input ports.MarkReceivedInput) (entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[input.ProductID]
	if !ok {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	if product.OwnerID != input.ActorID {
		return entities.Product{}, domainerrors.ErrNotOwner
	}

	product.Status = entities.StatusReceived
	product.UpdatedAt = input.Now
	s.products[input.ProductID] = product
	s.appendEntry(input.ProductID, input.EntryID, input.Now, input.ActorID, entities.ActionReceived, "")
	return product, nil
}

func (s *Store) AddNote(_ context.Context, input ports.AddNoteInput) (entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[input.ProductID]
	if !ok {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	if product.OwnerID != input.ActorID {
		return entities.Product{}, domainerrors.ErrNotOwner
	}

	product.UpdatedAt = input.Now
	s.products[input.ProductID] = product
	s.appendEntry(input.ProductID, input.EntryID, input.Now, input.ActorID, entities.ActionNote, input.Note)
	return product, nil
}

func (s *Store) SetViewGrant(_ context.Context, input ports.SetViewGrantInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[input.ProductID]
	if !ok {
		return domainerrors.ErrProductNotFound
	}
	if !input.ActorIsAdmin && product.OwnerID != input.ActorID {
		return domainerrors.ErrUnauthorized
	}

	key := grantKey{productID: input.ProductID, viewer: input.Viewer}
	if input.Granted {
		s.grants[key] = true
	} else {
		delete(s.grants, key)
	}
	return nil
}

func (s *Store) HasViewGrant(_ context.Context, productID string, viewer string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.grants[grantKey{productID: productID, viewer: viewer}], nil
}

// appendEntry grows the product history in place; callers hold the lock.
func (s *Store) appendEntry(
	productID string,
	entryID string,
	now time.Time,
	actorID string,
	action entities.EventAction,
	metadata string,
) {
	entries := s.history[productID]
	s.history[productID] = append(entries, entities.EventEntry{
		EntryID:   entryID,
		ProductID: productID,
		Sequence:  len(entries) + 1,
		Timestamp: now,
		ActorID:   actorID,
		Action:    action,
		Metadata:  metadata,
	})
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
