// README: Booking service tests (state machine + registry invariants).
package booking

import (
	"context"
	"testing"

	"washride/internal/types"
)

// TestNextStatus verifies the fixed linear progression without a store.
func TestNextStatus(t *testing.T) {
	for i, s := range StatusOrder[:len(StatusOrder)-1] {
		next, ok := NextStatus(s)
		if !ok {
			t.Fatalf("NextStatus(%s) not defined", s)
		}
		if next != StatusOrder[i+1] {
			t.Errorf("NextStatus(%s) = %s, want %s", s, next, StatusOrder[i+1])
		}
	}
	if _, ok := NextStatus(StatusDelivered); ok {
		t.Error("NextStatus(delivered) should be undefined")
	}
	if _, ok := NextStatus(StatusCancelled); ok {
		t.Error("NextStatus(cancelled) should be undefined")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusRequested, StatusConfirmed, true},
		{StatusConfirmed, StatusPickedUp, true},
		{StatusPickedUp, StatusInWash, true},
		{StatusInWash, StatusDrying, true},
		{StatusDrying, StatusDone, true},
		{StatusDone, StatusDelivered, true},
		// cancels from every non-terminal state
		{StatusRequested, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusPickedUp, StatusCancelled, true},
		{StatusInWash, StatusCancelled, true},
		{StatusDrying, StatusCancelled, true},
		{StatusDone, StatusCancelled, true},
		// invalid: terminal states have no outgoing transitions
		{StatusDelivered, StatusRequested, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusRequested, false},
		{StatusCancelled, StatusCancelled, false},
		// invalid: skipping or reversing states
		{StatusRequested, StatusPickedUp, false},
		{StatusConfirmed, StatusDrying, false},
		{StatusInWash, StatusDelivered, false},
		{StatusPickedUp, StatusConfirmed, false},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestBookingFlowHappyPath(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	ctx := context.Background()

	id := mustCreateBooking(t, svc, "c_happy")
	assertStatus(t, svc, id, StatusRequested)

	// Seven advances visit every status exactly once and end at delivered.
	want := StatusOrder[1:]
	for _, expected := range want {
		got, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver"})
		if err != nil {
			t.Fatalf("advance to %s: %v", expected, err)
		}
		if got != expected {
			t.Fatalf("advance returned %s, want %s", got, expected)
		}
		assertStatus(t, svc, id, expected)
	}

	// The next advance is rejected, not silently ignored.
	if _, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver"}); err != ErrInvalidTransition {
		t.Fatalf("advance after delivered: expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancelFromEveryNonTerminalStatus(t *testing.T) {
	ctx := context.Background()
	for i, status := range StatusOrder[:len(StatusOrder)-1] {
		svc := NewService(NewMemoryStore(), nil, nil)
		id := mustCreateBooking(t, svc, types.ID("c_cancel"))
		for j := 0; j < i; j++ {
			if _, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver"}); err != nil {
				t.Fatalf("advance %d from %s: %v", j, status, err)
			}
		}
		assertStatus(t, svc, id, status)
		if err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "admin", Reason: "test"}); err != nil {
			t.Fatalf("cancel from %s: %v", status, err)
		}
		assertStatus(t, svc, id, StatusCancelled)

		// Cancel is not idempotent: terminal bookings reject it.
		if err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "admin", Reason: "again"}); err != ErrInvalidTransition {
			t.Fatalf("cancel after cancel: expected ErrInvalidTransition, got %v", err)
		}
	}
}

func TestCancelAfterDelivered(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	ctx := context.Background()

	id := mustCreateBooking(t, svc, "c_delivered")
	for range StatusOrder[1:] {
		if _, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver"}); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	assertStatus(t, svc, id, StatusDelivered)

	if err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "client", Reason: "late"}); err != ErrInvalidTransition {
		t.Fatalf("cancel delivered booking: expected ErrInvalidTransition, got %v", err)
	}
}

func TestPaymentStatusIndependentOfBookingStatus(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	ctx := context.Background()

	id := mustCreateBooking(t, svc, "c_payment")
	if err := svc.UpdatePaymentStatus(ctx, id, PaymentProcessing); err != nil {
		t.Fatalf("payment processing: %v", err)
	}
	assertStatus(t, svc, id, StatusRequested)

	if _, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver"}); err != nil {
		t.Fatalf("advance: %v", err)
	}
	b, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.PaymentStatus != PaymentProcessing {
		t.Fatalf("advance changed payment status to %s", b.PaymentStatus)
	}

	if err := svc.UpdatePaymentStatus(ctx, id, PaymentPaid); err != nil {
		t.Fatalf("payment paid: %v", err)
	}
	assertStatus(t, svc, id, StatusConfirmed)

	// Payment bookkeeping is still allowed once the booking is terminal.
	if err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "client", Reason: "test"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.UpdatePaymentStatus(ctx, id, PaymentFailed); err != nil {
		t.Fatalf("payment update on terminal booking: %v", err)
	}

	if err := svc.UpdatePaymentStatus(ctx, id, PaymentStatus("sponsored")); err != ErrBadRequest {
		t.Fatalf("invalid payment status: expected ErrBadRequest, got %v", err)
	}
}

func TestSingleActiveBookingPerClient(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	ctx := context.Background()

	id := mustCreateBooking(t, svc, "c_single")
	if _, err := svc.Create(ctx, CreateCommand{
		ClientID:   "c_single",
		ProviderID: "prov1",
		Pickup:     types.Point{Lat: -15.4167, Lng: 28.2814},
	}); err != ErrActiveBooking {
		t.Fatalf("second active booking: expected ErrActiveBooking, got %v", err)
	}

	// Once the first booking is terminal the client can book again.
	if err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "client", Reason: "changed plans"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Create(ctx, CreateCommand{
		ClientID:   "c_single",
		ProviderID: "prov1",
		Pickup:     types.Point{Lat: -15.4167, Lng: 28.2814},
	}); err != nil {
		t.Fatalf("create after terminal: %v", err)
	}
}

func TestActiveLookups(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	ctx := context.Background()

	id := mustCreateBooking(t, svc, "c_active")
	if err := svc.AssignDriver(ctx, id, "d_active"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	b, err := svc.ActiveForClient(ctx, "c_active")
	if err != nil {
		t.Fatalf("active for client: %v", err)
	}
	if b.ID != id {
		t.Fatalf("active for client = %s, want %s", b.ID, id)
	}

	b, err = svc.ActiveForDriver(ctx, "d_active")
	if err != nil {
		t.Fatalf("active for driver: %v", err)
	}
	if b.ID != id {
		t.Fatalf("active for driver = %s, want %s", b.ID, id)
	}

	if _, err := svc.ActiveForClient(ctx, "c_nobody"); err != ErrNotFound {
		t.Fatalf("active for unknown client: expected ErrNotFound, got %v", err)
	}

	// Terminal bookings drop out of the active lookups.
	if err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "client", Reason: "test"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.ActiveForDriver(ctx, "d_active"); err != ErrNotFound {
		t.Fatalf("active for driver after cancel: expected ErrNotFound, got %v", err)
	}
}

func TestAssignDriverOnce(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	ctx := context.Background()

	id := mustCreateBooking(t, svc, "c_assign")
	if err := svc.AssignDriver(ctx, id, "d1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := svc.AssignDriver(ctx, id, "d2"); err != ErrConflict {
		t.Fatalf("second assign: expected ErrConflict, got %v", err)
	}
	b, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.DriverID == nil || *b.DriverID != "d1" {
		t.Fatalf("driver_id = %v, want d1", b.DriverID)
	}
}

func TestAdvanceRejectsStaleObservation(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	ctx := context.Background()

	id := mustCreateBooking(t, svc, "c_stale")
	if _, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver"}); err != nil {
		t.Fatalf("advance to confirmed: %v", err)
	}

	// Two drivers both saw confirmed and report pickup. The first commit
	// wins; the second is a lost race, not a further step.
	got, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver_a", Expected: StatusConfirmed})
	if err != nil {
		t.Fatalf("first anchored advance: %v", err)
	}
	if got != StatusPickedUp {
		t.Fatalf("first advance moved to %s, want picked_up", got)
	}
	if _, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver_b", Expected: StatusConfirmed}); err != ErrConflict {
		t.Fatalf("second anchored advance: expected ErrConflict, got %v", err)
	}
	assertStatus(t, svc, id, StatusPickedUp)
}

func TestCancelRecordsActorAndReason(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	ctx := context.Background()

	id := mustCreateBooking(t, svc, "c_reason")
	if err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "client", Reason: "changed plans"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	b, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if b.CancelledBy == nil || *b.CancelledBy != "client" {
		t.Fatalf("cancelled_by = %v, want client", b.CancelledBy)
	}
	if b.CancelReason == nil || *b.CancelReason != "changed plans" {
		t.Fatalf("cancel_reason = %v, want \"changed plans\"", b.CancelReason)
	}
	if b.CancelledAt == nil {
		t.Fatal("cancelled_at not set")
	}
}

func TestAdvanceUnknownBooking(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, nil)
	if _, err := svc.Advance(context.Background(), AdvanceCommand{BookingID: "missing", ActorType: "driver"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func mustCreateBooking(t *testing.T, svc *Service, clientID types.ID) types.ID {
	t.Helper()
	id, err := svc.Create(context.Background(), CreateCommand{
		ClientID:      clientID,
		ProviderID:    "prov1",
		Vehicle:       Vehicle{Make: "Toyota", Model: "Corolla", PlateNo: "ABX 4821", Color: "silver"},
		PickupAddress: "Plot 45, Great East Road, Lusaka",
		Pickup:        types.Point{Lat: -15.4167, Lng: 28.2814},
		Cost:          types.Money{Amount: 15000, Currency: "ZMW"},
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return id
}

func assertStatus(t *testing.T, svc *Service, id types.ID, want Status) {
	t.Helper()
	b, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if b.Status != want {
		t.Fatalf("expected status %s, got %s", want, b.Status)
	}
}
