// README: Provider store contract plus the PostgreSQL implementation.
package provider

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"washride/internal/types"
)

type Store interface {
	Create(ctx context.Context, p *Provider) error
	Get(ctx context.Context, id types.ID) (*Provider, error)
	List(ctx context.Context) ([]*Provider, error)
	ListApproved(ctx context.Context) ([]*Provider, error)
	SetApproved(ctx context.Context, id types.ID, approved bool) error

	AddService(ctx context.Context, svc *Service) error
	GetService(ctx context.Context, providerID, serviceID types.ID) (*Service, error)
	ListServices(ctx context.Context, providerID types.ID) ([]*Service, error)
	RemoveService(ctx context.Context, providerID, serviceID types.ID) error
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, p *Provider) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO providers (id, name, address, lat, lng, bays, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(p.ID), p.Name, p.Address, p.Location.Lat, p.Location.Lng,
		p.Bays, p.Approved, p.CreatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Provider, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, address, lat, lng, bays, approved, created_at
		FROM providers WHERE id = $1`, string(id),
	)
	var p Provider
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Location.Lat, &p.Location.Lng, &p.Bays, &p.Approved, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PGStore) List(ctx context.Context) ([]*Provider, error) {
	return s.list(ctx, `
		SELECT id, name, address, lat, lng, bays, approved, created_at
		FROM providers ORDER BY created_at`)
}

func (s *PGStore) ListApproved(ctx context.Context) ([]*Provider, error) {
	return s.list(ctx, `
		SELECT id, name, address, lat, lng, bays, approved, created_at
		FROM providers WHERE approved ORDER BY created_at`)
}

func (s *PGStore) list(ctx context.Context, query string) ([]*Provider, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Provider
	for rows.Next() {
		var p Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.Location.Lat, &p.Location.Lng, &p.Bays, &p.Approved, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (s *PGStore) SetApproved(ctx context.Context, id types.ID, approved bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE providers SET approved = $1 WHERE id = $2`, approved, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) AddService(ctx context.Context, svc *Service) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO provider_services (id, provider_id, name, description, price_amount, price_currency, duration_min)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(svc.ID), string(svc.ProviderID), svc.Name, svc.Description,
		svc.Price.Amount, svc.Price.Currency, svc.DurationMin,
	)
	return err
}

func (s *PGStore) GetService(ctx context.Context, providerID, serviceID types.ID) (*Service, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, provider_id, name, description, price_amount, price_currency, duration_min
		FROM provider_services WHERE id = $1 AND provider_id = $2`,
		string(serviceID), string(providerID),
	)
	var svc Service
	err := row.Scan(&svc.ID, &svc.ProviderID, &svc.Name, &svc.Description, &svc.Price.Amount, &svc.Price.Currency, &svc.DurationMin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *PGStore) ListServices(ctx context.Context, providerID types.ID) ([]*Service, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, provider_id, name, description, price_amount, price_currency, duration_min
		FROM provider_services WHERE provider_id = $1 ORDER BY name`, string(providerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.ProviderID, &svc.Name, &svc.Description, &svc.Price.Amount, &svc.Price.Currency, &svc.DurationMin); err != nil {
			return nil, err
		}
		out = append(out, &svc)
	}
	return out, rows.Err()
}

func (s *PGStore) RemoveService(ctx context.Context, providerID, serviceID types.ID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM provider_services WHERE id = $1 AND provider_id = $2`,
		string(serviceID), string(providerID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
