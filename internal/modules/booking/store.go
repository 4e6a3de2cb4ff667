// README: Booking store contract plus the PostgreSQL implementation.
package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"washride/internal/types"
)

// Store is the sole write path for bookings. UpdateStatus must be a
// compare-and-swap on (status, status_version) so concurrent advances on the
// same booking cannot both succeed.
type Store interface {
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id types.ID) (*Booking, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error)
	Cancel(ctx context.Context, id types.ID, from Status, version int, actor, reason string) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id types.ID, status PaymentStatus) error
	AssignDriver(ctx context.Context, id types.ID, driverID types.ID) (bool, error)
	HasActiveByClient(ctx context.Context, clientID types.ID) (bool, error)
	ActiveForClient(ctx context.Context, clientID types.ID) (*Booking, error)
	ActiveForDriver(ctx context.Context, driverID types.ID) (*Booking, error)
	ListActive(ctx context.Context) ([]*Booking, error)
	ListByClient(ctx context.Context, clientID types.ID) ([]*Booking, error)
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const bookingColumns = `
	id, client_id, driver_id, provider_id,
	vehicle_make, vehicle_model, vehicle_plate, vehicle_color,
	pickup_address, pickup_lat, pickup_lng,
	status, status_version, payment_status, cost_amount, cost_currency,
	created_at, delivered_at, cancelled_at, cancelled_by, cancel_reason`

func (s *PGStore) Create(ctx context.Context, b *Booking) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, client_id, driver_id, provider_id,
			vehicle_make, vehicle_model, vehicle_plate, vehicle_color,
			pickup_address, pickup_lat, pickup_lng,
			status, status_version, payment_status, cost_amount, cost_currency,
			created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15, $16,
			$17
		)`,
		string(b.ID),
		string(b.ClientID),
		idPtr(b.DriverID),
		string(b.ProviderID),
		b.Vehicle.Make, b.Vehicle.Model, b.Vehicle.PlateNo, b.Vehicle.Color,
		b.PickupAddress, b.Pickup.Lat, b.Pickup.Lng,
		string(b.Status),
		b.StatusVersion,
		string(b.PaymentStatus),
		b.Cost.Amount, b.Cost.Currency,
		b.CreatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, string(id))
	return scanBooking(row)
}

func (s *PGStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1,
		    status_version = status_version + 1,
		    delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to),
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Cancel is the cancellation commit: the same CAS as UpdateStatus plus the
// actor and reason recorded on the row.
func (s *PGStore) Cancel(ctx context.Context, id types.ID, from Status, version int, actor, reason string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = 'cancelled',
		    status_version = status_version + 1,
		    cancelled_at = NOW(),
		    cancelled_by = $1,
		    cancel_reason = $2
		WHERE id = $3 AND status = $4 AND status_version = $5`,
		strPtr(actor),
		strPtr(reason),
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) UpdatePaymentStatus(ctx context.Context, id types.ID, status PaymentStatus) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE bookings SET payment_status = $1 WHERE id = $2`,
		string(status), string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) AssignDriver(ctx context.Context, id types.ID, driverID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE bookings SET driver_id = $1 WHERE id = $2 AND driver_id IS NULL`,
		string(driverID), string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) HasActiveByClient(ctx context.Context, clientID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE client_id = $1
			  AND status NOT IN ('delivered','cancelled')
		)`, string(clientID),
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PGStore) ActiveForClient(ctx context.Context, clientID types.ID) (*Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE client_id = $1 AND status NOT IN ('delivered','cancelled')`,
		string(clientID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return oneActive(rows)
}

func (s *PGStore) ActiveForDriver(ctx context.Context, driverID types.ID) (*Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE driver_id = $1 AND status NOT IN ('delivered','cancelled')`,
		string(driverID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return oneActive(rows)
}

func (s *PGStore) ListActive(ctx context.Context) ([]*Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE status NOT IN ('delivered','cancelled')
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (s *PGStore) ListByClient(ctx context.Context, clientID types.ID) ([]*Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE client_id = $1 ORDER BY created_at DESC`,
		string(clientID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func oneActive(rows pgx.Rows) (*Booking, error) {
	found, err := collect(rows)
	if err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return found[0], nil
	default:
		return nil, ErrAmbiguousActive
	}
}

func collect(rows pgx.Rows) ([]*Booking, error) {
	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var driverID, cancelledBy, cancelReason *string
	err := row.Scan(
		&b.ID, &b.ClientID, &driverID, &b.ProviderID,
		&b.Vehicle.Make, &b.Vehicle.Model, &b.Vehicle.PlateNo, &b.Vehicle.Color,
		&b.PickupAddress, &b.Pickup.Lat, &b.Pickup.Lng,
		&b.Status, &b.StatusVersion, &b.PaymentStatus, &b.Cost.Amount, &b.Cost.Currency,
		&b.CreatedAt, &b.DeliveredAt, &b.CancelledAt, &cancelledBy, &cancelReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if driverID != nil {
		d := types.ID(*driverID)
		b.DriverID = &d
	}
	b.CancelledBy = cancelledBy
	b.CancelReason = cancelReason
	return &b, nil
}

func idPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func strPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
