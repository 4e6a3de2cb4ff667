// README: Driver assignment and availability tracker.
package driver

import (
	"context"
	"errors"

	"washride/internal/modules/booking"
	"washride/internal/types"
)

var ErrNotFound = errors.New("driver not found")

// BookingFinder answers whether a driver currently holds an active booking.
// Satisfied by the booking service; the linkage always lives on the booking.
type BookingFinder interface {
	ActiveForDriver(ctx context.Context, driverID types.ID) (*booking.Booking, error)
}

// SelectFunc picks a driver from the assignable pool for a booking. It is
// pluggable so deployments can swap the strategy without touching the
// tracker.
type SelectFunc func(pool []*Driver, b *booking.Booking) (*Driver, bool)

// NearestDriver selects the pool driver whose home position is closest to
// the booking's pickup point.
func NearestDriver(pool []*Driver, b *booking.Booking) (*Driver, bool) {
	var best *Driver
	bestKm := 0.0
	for _, d := range pool {
		km := haversineKm(d.Home, b.Pickup)
		if best == nil || km < bestKm {
			best = d
			bestKm = km
		}
	}
	return best, best != nil
}

type Service struct {
	store    Store
	bookings BookingFinder
	selector SelectFunc
}

func NewService(store Store, bookings BookingFinder, selector SelectFunc) *Service {
	if selector == nil {
		selector = NearestDriver
	}
	return &Service{store: store, bookings: bookings, selector: selector}
}

func (s *Service) Register(ctx context.Context, d *Driver) error {
	return s.store.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Driver, error) {
	return s.store.List(ctx)
}

// ApprovedAndAvailable returns the assignable pool: approved, marked
// available, and not currently on a booking.
func (s *Service) ApprovedAndAvailable(ctx context.Context) ([]*Driver, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	pool := make([]*Driver, 0, len(all))
	for _, d := range all {
		if !d.Approved || !d.Availability {
			continue
		}
		busy, err := s.hasActiveBooking(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		if !busy {
			pool = append(pool, d)
		}
	}
	return pool, nil
}

// SelectForBooking applies the configured strategy to the assignable pool.
func (s *Service) SelectForBooking(ctx context.Context, b *booking.Booking) (*Driver, error) {
	pool, err := s.ApprovedAndAvailable(ctx)
	if err != nil {
		return nil, err
	}
	d, ok := s.selector(pool, b)
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

// AssignedDriverFor resolves the driver on a booking. A booking whose
// driver has since been removed yields ErrNotFound, never a crash.
func (s *Service) AssignedDriverFor(ctx context.Context, b *booking.Booking) (*Driver, error) {
	if b.DriverID == nil {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, *b.DriverID)
}

// SetApproved is the administrator gate. It has no cascading effect on an
// assigned booking: an unapproved driver mid-trip keeps the trip and is
// only excluded from future assignment.
func (s *Service) SetApproved(ctx context.Context, id types.ID, approved bool) error {
	return s.store.SetApproved(ctx, id, approved)
}

func (s *Service) SetAvailability(ctx context.Context, id types.ID, available bool) error {
	return s.store.SetAvailability(ctx, id, available)
}

func (s *Service) hasActiveBooking(ctx context.Context, id types.ID) (bool, error) {
	if s.bookings == nil {
		return false, nil
	}
	_, err := s.bookings.ActiveForDriver(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, booking.ErrNotFound) {
		return false, nil
	}
	// An ambiguous active set still means the driver is occupied.
	if errors.Is(err, booking.ErrAmbiguousActive) {
		return true, nil
	}
	return false, err
}
