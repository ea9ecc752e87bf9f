package bootstrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/examgrid/examgrid-server/internal/bootstrap"
	"github.com/examgrid/examgrid-server/internal/db"
)

func TestEnsureDefaultAdminIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dbh.Close()

	created, err := bootstrap.EnsureDefaultAdmin(ctx, dbh, "admin_staff", "Password123!", "admin")
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if !created {
		t.Fatal("first call must create the account")
	}

	created, err = bootstrap.EnsureDefaultAdmin(ctx, dbh, "admin_staff", "Password123!", "admin")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if created {
		t.Fatal("second call must be a no-op")
	}

	var n int
	if err := dbh.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username='admin_staff'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("got %d seeded accounts, want 1", n)
	}
}

func TestEnsureDefaultAdminSkipsBlankPassword(t *testing.T) {
	ctx := context.Background()
	created, err := bootstrap.EnsureDefaultAdmin(ctx, nil, "admin_staff", "", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("blank password must disable seeding")
	}
}
