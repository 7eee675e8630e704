// internal/app/store/conversations/conversationstore_test.go
package conversationstore_test

import (
	"testing"
	"time"

	conversationstore "github.com/harborware/harborhub/internal/app/store/conversations"
	"github.com/harborware/harborhub/internal/domain/models"
	"github.com/harborware/harborhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_FindRetentionCandidates_PersonalOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := conversationstore.New(db)
	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()
	cutoff := now.Add(-60 * 24 * time.Hour)

	idle := fx.InsertConversation(ctx, fx.PersonalConversation("idle chat", now.Add(-61*24*time.Hour)))
	fx.InsertConversation(ctx, fx.PersonalConversation("busy chat", now.Add(-time.Hour)))
	// Group conversations are retained no matter how idle they are.
	fx.InsertConversation(ctx, fx.GroupConversation("group chat", primitive.NewObjectID(), now.Add(-365*24*time.Hour)))

	got, err := store.FindRetentionCandidates(ctx, cutoff)
	if err != nil {
		t.Fatalf("FindRetentionCandidates failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].ID != idle.ID {
		t.Errorf("expected %s, got %s", idle.ID.Hex(), got[0].ID.Hex())
	}
}

func TestStore_SoftDeleteByGroup_SingleTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := conversationstore.New(db)
	fx := testutil.NewFixtures(t, db)
	now := time.Now().UTC()
	groupID := primitive.NewObjectID()

	a := fx.InsertConversation(ctx, fx.GroupConversation("chat a", groupID, now))
	b := fx.InsertConversation(ctx, fx.GroupConversation("chat b", groupID, now))

	n, err := store.SoftDeleteByGroup(ctx, groupID, now)
	if err != nil {
		t.Fatalf("SoftDeleteByGroup failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 cascaded conversations, got %d", n)
	}

	// Both rows carry the same cascade timestamp.
	for _, c := range []models.Conversation{a, b} {
		got, err := store.GetByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Status != models.ConversationSoftDeleted {
			t.Errorf("conversation %s: expected %q, got %q", c.Title, models.ConversationSoftDeleted, got.Status)
		}
		if got.SoftDeletedAt == nil {
			t.Fatalf("conversation %s: expected soft_deleted_at", c.Title)
		}
		if d := got.SoftDeletedAt.Sub(now); d > time.Second || d < -time.Second {
			t.Errorf("conversation %s: soft_deleted_at %v deviates from %v", c.Title, got.SoftDeletedAt, now)
		}
	}
}
