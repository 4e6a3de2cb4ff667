// README: In-memory position index for tests and local development.
package location

import (
	"context"
	"sort"
	"sync"

	"washride/internal/types"
)

type MemoryGeoStore struct {
	mu        sync.RWMutex
	positions map[types.ID]types.Point
}

func NewMemoryGeoStore() *MemoryGeoStore {
	return &MemoryGeoStore{positions: make(map[types.ID]types.Point)}
}

func (s *MemoryGeoStore) Set(ctx context.Context, driverID types.ID, p types.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[driverID] = p
	return nil
}

func (s *MemoryGeoStore) Get(ctx context.Context, driverID types.ID) (types.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[driverID]
	if !ok {
		return types.Point{}, ErrNoPosition
	}
	return p, nil
}

func (s *MemoryGeoStore) Nearby(ctx context.Context, center types.Point, radiusKm float64, limit int) ([]types.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		id types.ID
		km float64
	}
	var hits []scored
	for id, p := range s.positions {
		d := haversineKm(center, p)
		if d <= radiusKm {
			hits = append(hits, scored{id: id, km: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].km < hits[j].km })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	ids := make([]types.ID, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.id)
	}
	return ids, nil
}

func (s *MemoryGeoStore) Remove(ctx context.Context, driverID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.positions, driverID)
	return nil
}
