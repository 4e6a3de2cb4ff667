// README: In-memory provider store for tests and local development.
package provider

import (
	"context"
	"sync"

	"washride/internal/types"
)

type MemoryStore struct {
	mu        sync.RWMutex
	providers map[types.ID]*Provider
	services  map[types.ID][]*Service
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		providers: make(map[types.ID]*Provider),
		services:  make(map[types.ID][]*Service),
	}
}

func (s *MemoryStore) Create(ctx context.Context, p *Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.providers[p.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id types.ID) (*Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.providers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Provider, 0, len(s.providers))
	for _, p := range s.providers {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) ListApproved(ctx context.Context) ([]*Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Provider
	for _, p := range s.providers {
		if !p.Approved {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) SetApproved(ctx context.Context, id types.ID, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[id]
	if !ok {
		return ErrNotFound
	}
	p.Approved = approved
	return nil
}

func (s *MemoryStore) AddService(ctx context.Context, svc *Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[svc.ProviderID]; !ok {
		return ErrNotFound
	}
	cp := *svc
	s.services[svc.ProviderID] = append(s.services[svc.ProviderID], &cp)
	return nil
}

func (s *MemoryStore) GetService(ctx context.Context, providerID, serviceID types.ID) (*Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, svc := range s.services[providerID] {
		if svc.ID == serviceID {
			cp := *svc
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListServices(ctx context.Context, providerID types.ID) ([]*Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Service, 0, len(s.services[providerID]))
	for _, svc := range s.services[providerID] {
		cp := *svc
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) RemoveService(ctx context.Context, providerID, serviceID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.services[providerID]
	for i, svc := range list {
		if svc.ID == serviceID {
			s.services[providerID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
