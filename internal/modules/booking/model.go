// README: Booking aggregate, status state machine, and payment axis.
package booking

import (
	"context"
	"time"

	"washride/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusRequested Status = "requested"
	StatusConfirmed Status = "confirmed"
	StatusPickedUp  Status = "picked_up"
	StatusInWash    Status = "in_wash"
	StatusDrying    Status = "drying"
	StatusDone      Status = "done"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// statusProgression is the single source of truth for forward transitions.
// The lifecycle is a strict linear order with exactly one successor per
// non-terminal state; cancellation is handled separately.
var statusProgression = map[Status]Status{
	StatusRequested: StatusConfirmed,
	StatusConfirmed: StatusPickedUp,
	StatusPickedUp:  StatusInWash,
	StatusInWash:    StatusDrying,
	StatusDrying:    StatusDone,
	StatusDone:      StatusDelivered,
}

// StatusOrder lists every lifecycle status in progression order.
var StatusOrder = []Status{
	StatusRequested, StatusConfirmed, StatusPickedUp,
	StatusInWash, StatusDrying, StatusDone, StatusDelivered,
}

// NextStatus returns the single legal successor of a status, or false when
// the status is terminal.
func NextStatus(s Status) (Status, bool) {
	next, ok := statusProgression[s]
	return next, ok
}

// IsTerminal reports whether a status has no legal successor.
func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether from→to is legal: the one forward step, or
// cancellation from any non-terminal state.
func CanTransition(from, to Status) bool {
	if to == StatusCancelled {
		return !IsTerminal(from)
	}
	next, ok := statusProgression[from]
	return ok && next == to
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Vehicle is the snapshot embedded on a booking at creation time.
type Vehicle struct {
	Make    string `json:"make"`
	Model   string `json:"model"`
	PlateNo string `json:"plate_no"`
	Color   string `json:"color"`
}

type Booking struct {
	ID            types.ID      `json:"id"`
	ClientID      types.ID      `json:"client_id"`
	DriverID      *types.ID     `json:"driver_id,omitempty"`
	ProviderID    types.ID      `json:"provider_id"`
	Vehicle       Vehicle       `json:"vehicle"`
	PickupAddress string        `json:"pickup_address,omitempty"`
	Pickup        types.Point   `json:"pickup"`
	Status        Status        `json:"status"`
	StatusVersion int           `json:"status_version"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Cost          types.Money   `json:"cost"`
	CreatedAt     time.Time     `json:"created_at"`
	DeliveredAt   *time.Time    `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
	CancelledBy   *string       `json:"cancelled_by,omitempty"`
	CancelReason  *string       `json:"cancel_reason,omitempty"`
}

// Active reports whether the booking still occupies its client and driver.
func (b *Booking) Active() bool {
	return !IsTerminal(b.Status)
}

// StatusChange is emitted on every committed transition.
type StatusChange struct {
	BookingID types.ID  `json:"booking_id"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	ActorType string    `json:"actor_type"`
	At        time.Time `json:"at"`
}

// EventPublisher receives committed status changes. Implementations must
// tolerate being called concurrently.
type EventPublisher interface {
	PublishStatusChange(ctx context.Context, e StatusChange) error
}
