// README: PostgreSQL store tests; skipped unless WASHRIDE_TEST_DSN is set.
package booking

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"washride/internal/types"
)

func TestPGStoreStatusCAS(t *testing.T) {
	store := setupPGStore(t)
	ctx := context.Background()

	b := &Booking{
		ID:            "b_cas",
		ClientID:      "c_cas",
		ProviderID:    "prov1",
		Status:        StatusRequested,
		PaymentStatus: PaymentPending,
		Cost:          types.Money{Amount: 15000, Currency: "ZMW"},
		CreatedAt:     time.Now(),
	}
	if err := store.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := store.UpdateStatus(ctx, b.ID, StatusRequested, StatusConfirmed, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !ok {
		t.Fatal("expected first CAS to commit")
	}

	// A second writer using the stale version must lose.
	ok, err = store.UpdateStatus(ctx, b.ID, StatusRequested, StatusConfirmed, 0)
	if err != nil {
		t.Fatalf("stale update: %v", err)
	}
	if ok {
		t.Fatal("stale CAS must not commit")
	}

	got, err := store.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusConfirmed || got.StatusVersion != 1 {
		t.Fatalf("got status=%s version=%d, want confirmed/1", got.Status, got.StatusVersion)
	}
}

func TestPGStoreCancelRecordsActorAndReason(t *testing.T) {
	store := setupPGStore(t)
	ctx := context.Background()

	b := &Booking{
		ID:            "b_cancel",
		ClientID:      "c_cancel",
		ProviderID:    "prov1",
		Status:        StatusRequested,
		PaymentStatus: PaymentPending,
		CreatedAt:     time.Now(),
	}
	if err := store.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := store.Cancel(ctx, b.ID, StatusRequested, 0, "client", "changed plans")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !ok {
		t.Fatal("expected cancel to commit")
	}

	got, err := store.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status = %s, want cancelled", got.Status)
	}
	if got.CancelledBy == nil || *got.CancelledBy != "client" {
		t.Fatalf("cancelled_by = %v, want client", got.CancelledBy)
	}
	if got.CancelReason == nil || *got.CancelReason != "changed plans" {
		t.Fatalf("cancel_reason = %v, want \"changed plans\"", got.CancelReason)
	}
	if got.CancelledAt == nil {
		t.Fatal("cancelled_at not set")
	}

	// Cancel is a CAS like any other status commit.
	ok, err = store.Cancel(ctx, b.ID, StatusRequested, 0, "client", "again")
	if err != nil {
		t.Fatalf("stale cancel: %v", err)
	}
	if ok {
		t.Fatal("stale cancel must not commit")
	}
}

func TestPGStoreActiveLookups(t *testing.T) {
	store := setupPGStore(t)
	ctx := context.Background()

	d := types.ID("d_pg")
	b := &Booking{
		ID:            "b_pg_active",
		ClientID:      "c_pg_active",
		DriverID:      &d,
		ProviderID:    "prov1",
		Status:        StatusConfirmed,
		PaymentStatus: PaymentPending,
		CreatedAt:     time.Now(),
	}
	if err := store.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.ActiveForClient(ctx, "c_pg_active")
	if err != nil {
		t.Fatalf("active for client: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("active booking = %s, want %s", got.ID, b.ID)
	}

	got, err = store.ActiveForDriver(ctx, d)
	if err != nil {
		t.Fatalf("active for driver: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("active booking = %s, want %s", got.ID, b.ID)
	}

	if _, err := store.ActiveForClient(ctx, "c_pg_missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func setupPGStore(t *testing.T) *PGStore {
	t.Helper()

	dsn := os.Getenv("WASHRIDE_TEST_DSN")
	if dsn == "" {
		t.Skip("WASHRIDE_TEST_DSN not set; skipping DB-backed store tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigrations(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE bookings"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return NewPGStore(db)
}

func applyMigrations(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_init.sql"))
	if err != nil {
		return err
	}
	for _, stmt := range splitSQL(stripSQLComments(string(content))) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
