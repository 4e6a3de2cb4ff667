// README: In-memory driver store for tests and local development.
package driver

import (
	"context"
	"sync"

	"washride/internal/types"
)

type MemoryStore struct {
	mu      sync.RWMutex
	drivers map[types.ID]*Driver
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drivers: make(map[types.ID]*Driver)}
}

func (s *MemoryStore) Create(ctx context.Context, d *Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.drivers[d.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id types.ID) (*Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drivers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) SetApproved(ctx context.Context, id types.ID, approved bool) error {
	return s.setFlag(id, func(d *Driver) { d.Approved = approved })
}

func (s *MemoryStore) SetAvailability(ctx context.Context, id types.ID, available bool) error {
	return s.setFlag(id, func(d *Driver) { d.Availability = available })
}

func (s *MemoryStore) setFlag(id types.ID, apply func(*Driver)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drivers[id]
	if !ok {
		return ErrNotFound
	}
	apply(d)
	return nil
}
