// internal/app/store/users/userstore_test.go
package userstore_test

import (
	"testing"
	"time"

	userstore "github.com/harborware/harborhub/internal/app/store/users"
	"github.com/harborware/harborhub/internal/domain/models"
	"github.com/harborware/harborhub/internal/testutil"
)

func TestStore_MarkInactiveBulk(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()
	cutoff := now.Add(-60 * 24 * time.Hour)

	idle1 := fx.InsertUser(ctx, fx.User("idle1@example.com", now.Add(-61*24*time.Hour)))
	idle2 := fx.InsertUser(ctx, fx.User("idle2@example.com", now.Add(-90*24*time.Hour)))
	fresh := fx.InsertUser(ctx, fx.User("fresh@example.com", now.Add(-1*24*time.Hour)))

	n, err := store.MarkInactiveBulk(ctx, cutoff)
	if err != nil {
		t.Fatalf("MarkInactiveBulk failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 users marked inactive, got %d", n)
	}

	for _, u := range []models.User{idle1, idle2} {
		got, err := store.GetByID(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Status != models.UserInactive {
			t.Errorf("user %s: expected status %q, got %q", u.Email, models.UserInactive, got.Status)
		}
	}
	got, err := store.GetByID(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.UserActive {
		t.Errorf("fresh user should stay active, got %q", got.Status)
	}

	// Rerunning finds no active users past the cutoff.
	n, err = store.MarkInactiveBulk(ctx, cutoff)
	if err != nil {
		t.Fatalf("repeat MarkInactiveBulk failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected idempotent rerun, got %d modified", n)
	}
}

func TestStore_HardDelete_RequiresSoftDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()

	soft := fx.InsertUser(ctx, testutil.SoftDeletedUser(
		fx.User("gone@example.com", now.Add(-120*24*time.Hour)), now.Add(-5*24*time.Hour)))
	active := fx.InsertUser(ctx, fx.User("here@example.com", now))

	ok, err := store.HardDelete(ctx, active.ID, now)
	if err != nil {
		t.Fatalf("HardDelete errored: %v", err)
	}
	if ok {
		t.Error("expected hard delete of an active user to be a no-op")
	}

	ok, err = store.HardDelete(ctx, soft.ID, now)
	if err != nil || !ok {
		t.Fatalf("HardDelete of soft-deleted user: ok=%v err=%v", ok, err)
	}

	got, err := store.GetByID(ctx, soft.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.UserHardDeleted {
		t.Errorf("expected status %q, got %q", models.UserHardDeleted, got.Status)
	}
	// The record survives as a readable tombstone.
	if got.Email == "" {
		t.Error("expected tombstone record to remain readable")
	}
}
