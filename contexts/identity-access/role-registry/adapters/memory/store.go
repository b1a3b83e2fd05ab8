package memory

import (
	"context"
	"sync"
	"time"

	"provenance/contexts/identity-access/role-registry/domain/entities"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the registry ports.
// It is intended for tests and local development wiring.
type Store struct {
	mu          sync.RWMutex
	assignments map[string]entities.Assignment
}

func NewStore() *Store {
	return &Store{
		assignments: make(map[string]entities.Assignment),
	}
}

func (s *Store) GetRole(_ context.Context, identity string) (entities.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignment, ok := s.assignments[identity]
	if !ok {
		return entities.RoleNone, nil
	}
	return assignment.Role, nil
}

func (s *Store) SetRole(_ context.Context, assignment entities.Assignment) (entities.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignments[assignment.Identity] = assignment
	return assignment, nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
