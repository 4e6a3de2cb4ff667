// README:
// Provider operations used by the HTTP layer and the booking flow.
// A booking can only be placed against an approved provider, and the
// position simulator steers drivers toward the provider's site while a
// car is in the wash.
package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"washride/internal/types"
)

var (
	ErrNotFound    = errors.New("provider not found")
	ErrNotApproved = errors.New("provider is not approved")
	ErrBadRequest  = errors.New("invalid provider request")
)

type Svc struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Svc {
	return &Svc{store: store, log: log}
}

type RegisterCommand struct {
	Name     string
	Address  string
	Location types.Point
	Bays     int
}

func (s *Svc) Register(ctx context.Context, cmd RegisterCommand) (*Provider, error) {
	if cmd.Name == "" {
		return nil, ErrBadRequest
	}
	if cmd.Bays <= 0 {
		cmd.Bays = 1
	}
	p := &Provider{
		ID:        types.ID(uuid.NewString()),
		Name:      cmd.Name,
		Address:   cmd.Address,
		Location:  cmd.Location,
		Bays:      cmd.Bays,
		Approved:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("provider registered", "provider_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *Svc) Get(ctx context.Context, id types.ID) (*Provider, error) {
	return s.store.Get(ctx, id)
}

// Approved fetches a provider and fails when it has not been approved.
// Booking creation goes through this so unapproved sites never receive work.
func (s *Svc) Approved(ctx context.Context, id types.ID) (*Provider, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Approved {
		return nil, ErrNotApproved
	}
	return p, nil
}

func (s *Svc) List(ctx context.Context) ([]*Provider, error) {
	return s.store.List(ctx)
}

func (s *Svc) ListApproved(ctx context.Context) ([]*Provider, error) {
	return s.store.ListApproved(ctx)
}

func (s *Svc) SetApproved(ctx context.Context, id types.ID, approved bool) error {
	if err := s.store.SetApproved(ctx, id, approved); err != nil {
		return err
	}
	s.log.Info("provider approval changed", "provider_id", id, "approved", approved)
	return nil
}

type AddServiceCommand struct {
	ProviderID  types.ID
	Name        string
	Description string
	Price       types.Money
	DurationMin int
}

func (s *Svc) AddService(ctx context.Context, cmd AddServiceCommand) (*Service, error) {
	if cmd.Name == "" || cmd.Price.Amount <= 0 {
		return nil, ErrBadRequest
	}
	if cmd.Price.Currency == "" {
		cmd.Price.Currency = "ZMW"
	}
	svc := &Service{
		ID:          types.ID(uuid.NewString()),
		ProviderID:  cmd.ProviderID,
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		DurationMin: cmd.DurationMin,
	}
	if err := s.store.AddService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// GetService resolves one catalog entry. Booking creation prices the
// booking from here rather than trusting a client-supplied amount.
func (s *Svc) GetService(ctx context.Context, providerID, serviceID types.ID) (*Service, error) {
	return s.store.GetService(ctx, providerID, serviceID)
}

func (s *Svc) ListServices(ctx context.Context, providerID types.ID) ([]*Service, error) {
	return s.store.ListServices(ctx, providerID)
}

func (s *Svc) RemoveService(ctx context.Context, providerID, serviceID types.ID) error {
	return s.store.RemoveService(ctx, providerID, serviceID)
}
