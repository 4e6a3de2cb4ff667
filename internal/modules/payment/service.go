// README:
// Payment processing walks a booking's payment axis from pending
// through processing to paid or failed. Charging goes through a
// Gateway so the real processor can be swapped in without touching the
// flow.
package payment

import (
	"context"
	"errors"
	"log/slog"

	"washride/internal/modules/booking"
	"washride/internal/types"
)

var (
	ErrInvalidDetails = errors.New("invalid payment details")
	ErrDeclined       = errors.New("payment declined")
)

// Gateway charges a prepared payment. Implementations talk to the
// actual processor (MTN MoMo, Airtel Money, card acquirer).
type Gateway interface {
	Charge(ctx context.Context, method Method, amount types.Money, details Details) error
}

// AcceptAllGateway approves every charge. Used in development and for
// cash, which is settled by the driver on delivery.
type AcceptAllGateway struct{}

func (AcceptAllGateway) Charge(ctx context.Context, method Method, amount types.Money, details Details) error {
	return nil
}

type Service struct {
	bookings *booking.Service
	gateway  Gateway
	log      *slog.Logger
}

func NewService(bookings *booking.Service, gateway Gateway, log *slog.Logger) *Service {
	return &Service{bookings: bookings, gateway: gateway, log: log}
}

type ProcessCommand struct {
	BookingID types.ID
	Details   Details
}

// Process charges the booking's cost plus the method fee. The booking
// is marked processing for the duration of the charge, then paid or
// failed. A failed charge leaves the booking itself untouched; the
// client can retry with another method.
func (s *Service) Process(ctx context.Context, cmd ProcessCommand) error {
	if err := cmd.Details.Validate(); err != nil {
		return err
	}
	b, err := s.bookings.Get(ctx, cmd.BookingID)
	if err != nil {
		return err
	}
	if b.PaymentStatus == booking.PaymentPaid {
		return nil
	}

	if err := s.bookings.UpdatePaymentStatus(ctx, b.ID, booking.PaymentProcessing); err != nil {
		return err
	}

	total := Total(cmd.Details.Kind, b.Cost)
	if err := s.gateway.Charge(ctx, cmd.Details.Kind, total, cmd.Details); err != nil {
		s.log.Warn("payment charge failed", "booking_id", b.ID, "method", cmd.Details.Kind, "error", err)
		if uerr := s.bookings.UpdatePaymentStatus(ctx, b.ID, booking.PaymentFailed); uerr != nil {
			return uerr
		}
		return ErrDeclined
	}

	if err := s.bookings.UpdatePaymentStatus(ctx, b.ID, booking.PaymentPaid); err != nil {
		return err
	}
	s.log.Info("payment settled", "booking_id", b.ID, "method", cmd.Details.Kind, "amount", total.Amount)
	return nil
}
