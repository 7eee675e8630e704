// internal/app/store/groups/groupstore_test.go
package groupstore_test

import (
	"errors"
	"testing"
	"time"

	groupstore "github.com/harborware/harborhub/internal/app/store/groups"
	"github.com/harborware/harborhub/internal/app/system/indexes"
	"github.com/harborware/harborhub/internal/testutil"
)

func TestStore_Insert_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()

	if err := store.Insert(ctx, fx.Group("Physics 101", "alice@example.com", 30, now)); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	// Same name with different casing collides on the folded name.
	err := store.Insert(ctx, fx.Group("PHYSICS 101", "bob@example.com", 30, now))
	if !errors.Is(err, groupstore.ErrDuplicateGroupName) {
		t.Fatalf("expected ErrDuplicateGroupName, got %v", err)
	}
}

func TestStore_FindExpiryCandidates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()

	// Created 31 days ago with a 30-day lifetime: past its window.
	expired := fx.InsertGroup(ctx, fx.Group("Old Group", "a@example.com", 30, now.Add(-31*24*time.Hour)))
	// Created yesterday: well inside its window.
	fx.InsertGroup(ctx, fx.Group("Fresh Group", "b@example.com", 30, now.Add(-24*time.Hour)))

	candidates, err := store.FindExpiryCandidates(ctx, now)
	if err != nil {
		t.Fatalf("FindExpiryCandidates failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ID != expired.ID {
		t.Errorf("expected candidate %s, got %s", expired.ID.Hex(), candidates[0].ID.Hex())
	}
}

func TestStore_MarkExpired_OnlyActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()

	g := fx.InsertGroup(ctx, fx.Group("Expiring", "a@example.com", 30, now.Add(-31*24*time.Hour)))

	ok, err := store.MarkExpired(ctx, g.ID)
	if err != nil {
		t.Fatalf("MarkExpired failed: %v", err)
	}
	if !ok {
		t.Fatal("expected first MarkExpired to modify the group")
	}

	// Second attempt finds no active group and reports no change.
	ok, err = store.MarkExpired(ctx, g.ID)
	if err != nil {
		t.Fatalf("second MarkExpired failed: %v", err)
	}
	if ok {
		t.Error("expected second MarkExpired to be a no-op")
	}
}

func TestStore_SoftDelete_FromActiveAndExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()

	active := fx.InsertGroup(ctx, fx.Group("Active Group", "a@example.com", 30, now))
	expired := fx.InsertGroup(ctx, fx.Group("Expired Group", "b@example.com", 30, now.Add(-40*24*time.Hour)))
	if _, err := store.MarkExpired(ctx, expired.ID); err != nil {
		t.Fatalf("MarkExpired failed: %v", err)
	}

	ok, err := store.SoftDelete(ctx, active.ID, now)
	if err != nil || !ok {
		t.Fatalf("soft delete of active group: ok=%v err=%v", ok, err)
	}
	ok, err = store.SoftDelete(ctx, expired.ID, now)
	if err != nil || !ok {
		t.Fatalf("soft delete of expired group: ok=%v err=%v", ok, err)
	}

	// A soft-deleted group cannot be deleted again.
	ok, err = store.SoftDelete(ctx, active.ID, now)
	if err != nil {
		t.Fatalf("repeat soft delete errored: %v", err)
	}
	if ok {
		t.Error("expected repeat soft delete to be a no-op")
	}

	got, err := store.GetByID(ctx, active.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SoftDeletedAt == nil {
		t.Error("expected soft_deleted_at to be set")
	}
}
