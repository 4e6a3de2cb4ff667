// README:
// Position updates fan out from here: the live GEO index is always
// written, snapshots and the push notifier are best-effort extras that
// must never block a moving driver.
package location

import (
	"context"
	"log/slog"
	"time"

	"washride/internal/types"
)

// Notifier pushes a position update to connected watchers. The
// websocket hub implements this.
type Notifier interface {
	NotifyPosition(p Position)
}

type Service struct {
	geo       GeoStore
	snapshots SnapshotStore
	notifier  Notifier
	log       *slog.Logger
}

// NewService builds the location service. snapshots and notifier may
// be nil.
func NewService(geo GeoStore, snapshots SnapshotStore, notifier Notifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{geo: geo, snapshots: snapshots, notifier: notifier, log: log}
}

func (s *Service) Update(ctx context.Context, driverID types.ID, pt types.Point) error {
	return s.publish(ctx, Position{DriverID: driverID, Point: pt, At: time.Now().UTC()})
}

// UpdateTracked is the simulator's write path: the update carries the
// booking being served and the remaining route ETA.
func (s *Service) UpdateTracked(ctx context.Context, driverID types.ID, pt types.Point, bookingID types.ID, etaSeconds float64) error {
	return s.publish(ctx, Position{
		DriverID:   driverID,
		Point:      pt,
		At:         time.Now().UTC(),
		BookingID:  bookingID,
		EtaSeconds: etaSeconds,
	})
}

func (s *Service) publish(ctx context.Context, p Position) error {
	if err := s.geo.Set(ctx, p.DriverID, p.Point); err != nil {
		return err
	}
	if s.snapshots != nil {
		if err := s.snapshots.Append(ctx, p); err != nil {
			s.log.Warn("append position snapshot", "driver_id", p.DriverID, "err", err)
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyPosition(p)
	}
	return nil
}

func (s *Service) Position(ctx context.Context, driverID types.ID) (types.Point, error) {
	return s.geo.Get(ctx, driverID)
}

func (s *Service) Nearby(ctx context.Context, center types.Point, radiusKm float64, limit int) ([]types.ID, error) {
	return s.geo.Nearby(ctx, center, radiusKm, limit)
}

func (s *Service) History(ctx context.Context, driverID types.ID, limit int) ([]Position, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.snapshots.ListByDriver(ctx, driverID, limit)
}

func (s *Service) Remove(ctx context.Context, driverID types.ID) error {
	return s.geo.Remove(ctx, driverID)
}
