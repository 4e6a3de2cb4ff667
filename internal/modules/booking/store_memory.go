// README: In-memory booking store with the same CAS semantics as PGStore.
package booking

import (
	"context"
	"sync"
	"time"

	"washride/internal/types"
)

// MemoryStore backs tests and local development. It honors the same
// compare-and-swap discipline as the PostgreSQL store.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings map[types.ID]*Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bookings: make(map[types.ID]*Booking)}
}

func (s *MemoryStore) Create(ctx context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id types.ID) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return false, ErrNotFound
	}
	if b.Status != from || b.StatusVersion != version {
		return false, nil
	}
	now := time.Now()
	b.Status = to
	b.StatusVersion++
	switch to {
	case StatusDelivered:
		b.DeliveredAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
	}
	return true, nil
}

func (s *MemoryStore) Cancel(ctx context.Context, id types.ID, from Status, version int, actor, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return false, ErrNotFound
	}
	if b.Status != from || b.StatusVersion != version {
		return false, nil
	}
	now := time.Now()
	b.Status = StatusCancelled
	b.StatusVersion++
	b.CancelledAt = &now
	if actor != "" {
		a := actor
		b.CancelledBy = &a
	}
	if reason != "" {
		r := reason
		b.CancelReason = &r
	}
	return true, nil
}

func (s *MemoryStore) UpdatePaymentStatus(ctx context.Context, id types.ID, status PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.PaymentStatus = status
	return nil
}

func (s *MemoryStore) AssignDriver(ctx context.Context, id types.ID, driverID types.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return false, ErrNotFound
	}
	if b.DriverID != nil {
		return false, nil
	}
	d := driverID
	b.DriverID = &d
	return true, nil
}

func (s *MemoryStore) HasActiveByClient(ctx context.Context, clientID types.ID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ClientID == clientID && b.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ActiveForClient(ctx context.Context, clientID types.ID) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return oneActiveOf(s.bookings, func(b *Booking) bool { return b.ClientID == clientID })
}

func (s *MemoryStore) ActiveForDriver(ctx context.Context, driverID types.ID) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return oneActiveOf(s.bookings, func(b *Booking) bool {
		return b.DriverID != nil && *b.DriverID == driverID
	})
}

func (s *MemoryStore) ListActive(ctx context.Context) ([]*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Booking
	for _, b := range s.bookings {
		if b.Active() {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListByClient(ctx context.Context, clientID types.ID) ([]*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Booking
	for _, b := range s.bookings {
		if b.ClientID == clientID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func oneActiveOf(all map[types.ID]*Booking, match func(*Booking) bool) (*Booking, error) {
	var found *Booking
	for _, b := range all {
		if !match(b) || !b.Active() {
			continue
		}
		if found != nil {
			return nil, ErrAmbiguousActive
		}
		cp := *b
		found = &cp
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}
