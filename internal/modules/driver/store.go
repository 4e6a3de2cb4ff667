// README: Driver store contract plus the PostgreSQL implementation.
package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"washride/internal/types"
)

type Store interface {
	Create(ctx context.Context, d *Driver) error
	Get(ctx context.Context, id types.ID) (*Driver, error)
	List(ctx context.Context) ([]*Driver, error)
	SetApproved(ctx context.Context, id types.ID, approved bool) error
	SetAvailability(ctx context.Context, id types.ID, available bool) error
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, d *Driver) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO drivers (id, user_id, name, phone, approved, availability, home_lat, home_lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(d.ID), string(d.UserID), d.Name, d.Phone,
		d.Approved, d.Availability, d.Home.Lat, d.Home.Lng, d.CreatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, name, phone, approved, availability, home_lat, home_lng, created_at
		FROM drivers WHERE id = $1`, string(id),
	)
	var d Driver
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Phone, &d.Approved, &d.Availability, &d.Home.Lat, &d.Home.Lng, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PGStore) List(ctx context.Context) ([]*Driver, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, phone, approved, availability, home_lat, home_lng, created_at
		FROM drivers ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Phone, &d.Approved, &d.Availability, &d.Home.Lat, &d.Home.Lng, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (s *PGStore) SetApproved(ctx context.Context, id types.ID, approved bool) error {
	return s.setFlag(ctx, id, "approved", approved)
}

func (s *PGStore) SetAvailability(ctx context.Context, id types.ID, available bool) error {
	return s.setFlag(ctx, id, "availability", available)
}

func (s *PGStore) setFlag(ctx context.Context, id types.ID, column string, value bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE drivers SET `+column+` = $1 WHERE id = $2`, value, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
