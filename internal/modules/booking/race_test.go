// README: Concurrency tests for booking status transitions (run with -race).
package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestConcurrentAdvanceSameBooking(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil, nil)

	id := mustCreateBooking(t, svc, "c_race_advance")
	if _, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver"}); err != nil {
		t.Fatalf("advance to confirmed: %v", err)
	}
	assertStatus(t, svc, id, StatusConfirmed)

	// Several drivers report pickup at the same time, each anchored to
	// the confirmed status they all observed; exactly one may win and
	// the booking must not skip a state.
	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			_, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: fmt.Sprintf("driver_%d", n), Expected: StatusConfirmed})
			errs <- err
		}(i)
	}

	close(start)
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrInvalidTransition {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 success, got %d", success)
	}
	assertStatus(t, svc, id, StatusPickedUp)
}

func TestConcurrentAdvanceVsCancel(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil, nil)

	id := mustCreateBooking(t, svc, "c_race_cancel")

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Advance(ctx, AdvanceCommand{BookingID: id, ActorType: "driver"})
		errs <- err
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "client", Reason: "user_cancel"})
	}()

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrInvalidTransition {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success < 1 || success > 2 {
		t.Fatalf("expected 1 or 2 successes, got %d", success)
	}

	b, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if success == 2 && b.Status != StatusCancelled {
		t.Fatalf("expected cancelled after advance+cancel, got %s", b.Status)
	}
	if success == 1 && b.Status != StatusConfirmed && b.Status != StatusCancelled {
		t.Fatalf("unexpected final status: %s", b.Status)
	}
}

func TestConcurrentCreateSameClient(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, nil, nil)

	// The write-time guard is best-effort under pure races; the store-level
	// single-active check must still produce at most one unambiguous answer
	// once the dust settles.
	const attempts = 4
	var wg sync.WaitGroup
	ids := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, CreateCommand{ClientID: "c_race_create", ProviderID: "prov1"})
			ids <- err
		}()
	}
	wg.Wait()
	close(ids)

	created := 0
	for err := range ids {
		if err == nil {
			created++
		} else if err != ErrActiveBooking {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created == 0 {
		t.Fatal("expected at least one booking to be created")
	}

	if created == 1 {
		if _, err := svc.ActiveForClient(ctx, "c_race_create"); err != nil {
			t.Fatalf("active lookup: %v", err)
		}
	} else {
		if _, err := svc.ActiveForClient(ctx, "c_race_create"); err != ErrAmbiguousActive {
			t.Fatalf("expected ErrAmbiguousActive with %d active bookings, got %v", created, err)
		}
	}
}
