// README: Append-only position snapshot trail in PostgreSQL.
package location

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"washride/internal/types"
)

type SnapshotStore interface {
	Append(ctx context.Context, p Position) error
	ListByDriver(ctx context.Context, driverID types.ID, limit int) ([]Position, error)
}

type PGSnapshotStore struct {
	db *pgxpool.Pool
}

func NewPGSnapshotStore(db *pgxpool.Pool) *PGSnapshotStore {
	return &PGSnapshotStore{db: db}
}

func (s *PGSnapshotStore) Append(ctx context.Context, p Position) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO position_snapshots (driver_id, lat, lng, recorded_at)
		VALUES ($1, $2, $3, $4)`,
		string(p.DriverID), p.Point.Lat, p.Point.Lng, p.At,
	)
	return err
}

func (s *PGSnapshotStore) ListByDriver(ctx context.Context, driverID types.ID, limit int) ([]Position, error) {
	rows, err := s.db.Query(ctx, `
		SELECT driver_id, lat, lng, recorded_at
		FROM position_snapshots WHERE driver_id = $1
		ORDER BY recorded_at DESC LIMIT $2`, string(driverID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.DriverID, &p.Point.Lat, &p.Point.Lng, &p.At); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
