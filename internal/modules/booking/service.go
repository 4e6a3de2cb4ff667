// README: Booking registry; the only legal write path for status and payment mutation.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"washride/internal/observability"
	"washride/internal/types"
)

var (
	ErrInvalidTransition = errors.New("booking already completed or cancelled")
	ErrNotFound          = errors.New("booking not found")
	ErrConflict          = errors.New("booking state conflict")
	ErrActiveBooking     = errors.New("client has an active booking")
	ErrAmbiguousActive   = errors.New("more than one active booking")
	ErrBadRequest        = errors.New("bad request")
)

type Service struct {
	store  Store
	events EventPublisher
	log    *slog.Logger
}

func NewService(store Store, events EventPublisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, events: events, log: log}
}

type CreateCommand struct {
	ClientID      types.ID
	ProviderID    types.ID
	Vehicle       Vehicle
	PickupAddress string
	Pickup        types.Point
	Cost          types.Money
}

type AdvanceCommand struct {
	BookingID types.ID
	ActorType string
	// Expected is the status the caller last observed. When set, the
	// advance only commits from exactly that status; a booking that has
	// moved on in the meantime is a lost race, not a further step.
	Expected Status
}

type CancelCommand struct {
	BookingID types.ID
	ActorType string
	Reason    string
}

// Create registers a new booking in status requested. A client may hold at
// most one active booking; a second request is rejected rather than
// disambiguated after the fact.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.ClientID == "" || cmd.ProviderID == "" {
		return "", ErrBadRequest
	}
	active, err := s.store.HasActiveByClient(ctx, cmd.ClientID)
	if err != nil {
		return "", err
	}
	if active {
		return "", ErrActiveBooking
	}

	id := types.ID(uuid.NewString())
	now := time.Now()
	b := &Booking{
		ID:            id,
		ClientID:      cmd.ClientID,
		ProviderID:    cmd.ProviderID,
		Vehicle:       cmd.Vehicle,
		PickupAddress: cmd.PickupAddress,
		Pickup:        cmd.Pickup,
		Status:        StatusRequested,
		StatusVersion: 0,
		PaymentStatus: PaymentPending,
		Cost:          cmd.Cost,
		CreatedAt:     now,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return "", err
	}
	s.publish(ctx, StatusChange{
		BookingID: id,
		From:      StatusNone,
		To:        StatusRequested,
		ActorType: "client",
		At:        now,
	})
	return id, nil
}

// Advance moves a booking one step along the fixed progression. It is the
// only way a booking moves forward; the successor is computed here, never
// supplied by the caller.
func (s *Service) Advance(ctx context.Context, cmd AdvanceCommand) (Status, error) {
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return "", err
	}
	if cmd.Expected != "" && b.Status != cmd.Expected {
		observability.TransitionConflicts.Inc()
		return "", ErrConflict
	}
	next, ok := NextStatus(b.Status)
	if !ok {
		return "", ErrInvalidTransition
	}
	committed, err := s.store.UpdateStatus(ctx, b.ID, b.Status, next, b.StatusVersion)
	if err != nil {
		return "", err
	}
	if !committed {
		observability.TransitionConflicts.Inc()
		return "", ErrConflict
	}
	observability.TransitionsTotal.WithLabelValues(string(b.Status), string(next)).Inc()
	s.publish(ctx, StatusChange{
		BookingID: b.ID,
		From:      b.Status,
		To:        next,
		ActorType: cmd.ActorType,
		At:        time.Now(),
	})
	return next, nil
}

// Cancel moves a booking to cancelled from any non-terminal state.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return err
	}
	if IsTerminal(b.Status) {
		return ErrInvalidTransition
	}
	committed, err := s.store.Cancel(ctx, b.ID, b.Status, b.StatusVersion, cmd.ActorType, cmd.Reason)
	if err != nil {
		return err
	}
	if !committed {
		observability.TransitionConflicts.Inc()
		return ErrConflict
	}
	observability.TransitionsTotal.WithLabelValues(string(b.Status), string(StatusCancelled)).Inc()
	s.publish(ctx, StatusChange{
		BookingID: b.ID,
		From:      b.Status,
		To:        StatusCancelled,
		ActorType: cmd.ActorType,
		At:        time.Now(),
	})
	return nil
}

// UpdatePaymentStatus mutates the payment axis only; booking status is
// untouched, including on terminal bookings.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id types.ID, status PaymentStatus) error {
	if !ValidPaymentStatus(status) {
		return ErrBadRequest
	}
	return s.store.UpdatePaymentStatus(ctx, id, status)
}

// AssignDriver records the driver on the booking. The booking owns the
// linkage; a driver's current booking is always derived by query.
func (s *Service) AssignDriver(ctx context.Context, bookingID, driverID types.ID) error {
	b, err := s.store.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if IsTerminal(b.Status) {
		return ErrInvalidTransition
	}
	assigned, err := s.store.AssignDriver(ctx, bookingID, driverID)
	if err != nil {
		return err
	}
	if !assigned {
		return ErrConflict
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ActiveForClient(ctx context.Context, clientID types.ID) (*Booking, error) {
	return s.store.ActiveForClient(ctx, clientID)
}

func (s *Service) ActiveForDriver(ctx context.Context, driverID types.ID) (*Booking, error) {
	return s.store.ActiveForDriver(ctx, driverID)
}

func (s *Service) ListActive(ctx context.Context) ([]*Booking, error) {
	return s.store.ListActive(ctx)
}

func (s *Service) ListByClient(ctx context.Context, clientID types.ID) ([]*Booking, error) {
	return s.store.ListByClient(ctx, clientID)
}

func (s *Service) publish(ctx context.Context, e StatusChange) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishStatusChange(ctx, e); err != nil {
		s.log.Warn("publish status change", "booking_id", e.BookingID, "err", err)
	}
}
