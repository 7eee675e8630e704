// internal/app/features/groups/handler_test.go
package groups_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	groupsfeature "github.com/harborware/harborhub/internal/app/features/groups"
	"github.com/harborware/harborhub/internal/app/store/audit"
	conversationstore "github.com/harborware/harborhub/internal/app/store/conversations"
	groupstore "github.com/harborware/harborhub/internal/app/store/groups"
	resourcestore "github.com/harborware/harborhub/internal/app/store/resources"
	"github.com/harborware/harborhub/internal/app/system/auditlog"
	"github.com/harborware/harborhub/internal/app/system/indexes"
	"github.com/harborware/harborhub/internal/domain/models"
	"github.com/harborware/harborhub/internal/testutil"
	"go.uber.org/zap"
)

type env struct {
	srv           *httptest.Server
	groups        *groupstore.Store
	resources     *resourcestore.Store
	conversations *conversationstore.Store
	auditStore    *audit.Store
	fx            *testutil.Fixtures
}

func setup(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	groups := groupstore.New(db)
	resources := resourcestore.New(db)
	conversations := conversationstore.New(db)
	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, zap.NewNop(), auditlog.Config{Destination: "db"})

	h := groupsfeature.NewHandler(groups, resources, conversations, auditLog, zap.NewNop())
	srv := httptest.NewServer(groupsfeature.Routes(h))
	t.Cleanup(srv.Close)

	return &env{
		srv:           srv,
		groups:        groups,
		resources:     resources,
		conversations: conversations,
		auditStore:    auditStore,
		fx:            testutil.NewFixtures(t, db),
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func deleteJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req, err := http.NewRequest(http.MethodDelete, url, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeCreate(t *testing.T) {
	e := setup(t)

	resp := postJSON(t, e.srv.URL+"/", map[string]any{
		"name":         "Marine Biology",
		"description":  "Weekly readings",
		"creatorEmail": "alice@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		GroupID   string    `json:"groupId"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.GroupID == "" {
		t.Error("expected a group id")
	}
	if body.ExpiresAt.IsZero() {
		t.Error("expected an expiry timestamp")
	}

	// Same name again collides.
	resp = postJSON(t, e.srv.URL+"/", map[string]any{
		"name":         "marine biology",
		"creatorEmail": "bob@example.com",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate name, got %d", resp.StatusCode)
	}

	// Missing name is rejected before any write.
	resp = postJSON(t, e.srv.URL+"/", map[string]any{
		"creatorEmail": "carol@example.com",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing name, got %d", resp.StatusCode)
	}
}

func TestServeDelete_Validation(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	g := e.fx.InsertGroup(ctx, e.fx.Group("Doomed", "admin@example.com", 30, now))

	// Missing email.
	resp := deleteJSON(t, e.srv.URL+"/"+g.ID.Hex(), map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing email, got %d", resp.StatusCode)
	}

	// Malformed id.
	resp = deleteJSON(t, e.srv.URL+"/not-an-id", map[string]any{"email": "admin@example.com"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", resp.StatusCode)
	}

	// Unknown group.
	resp = deleteJSON(t, e.srv.URL+"/64b000000000000000000000", map[string]any{"email": "admin@example.com"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown group, got %d", resp.StatusCode)
	}
}

func TestServeDelete_ForbiddenWithoutRights(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	g := e.fx.Group("Guarded", "admin@example.com", 30, now)
	g.Members = append(g.Members,
		models.Member{
			Email:    "viewer@example.com",
			Role:     models.RoleMember,
			JoinedAt: now,
		},
		// Deletion is admin-only: the CanDelete rights flag must not be
		// enough to delete the group itself.
		models.Member{
			Email:    "editor@example.com",
			Role:     models.RoleMember,
			JoinedAt: now,
			Rights:   models.MemberRights{CanEdit: true, CanDelete: true},
		},
	)
	g = e.fx.InsertGroup(ctx, g)

	for _, email := range []string{"viewer@example.com", "editor@example.com"} {
		resp := deleteJSON(t, e.srv.URL+"/"+g.ID.Hex(), map[string]any{"email": email})
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", email, resp.StatusCode)
		}
	}

	// The group is untouched and the denials leave no audit trail.
	got, err := e.groups.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.GroupActive {
		t.Errorf("expected group to stay active, got %q", got.Status)
	}
	entries, err := e.auditStore.FindByEntity(ctx, audit.EntityGroup, g.ID.Hex())
	if err != nil {
		t.Fatalf("FindByEntity failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no audit entries for a denied delete, got %d", len(entries))
	}
}

func TestServeDelete_CascadeSoftDeletesChildren(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	g := e.fx.InsertGroup(ctx, e.fx.Group("Cascade", "admin@example.com", 30, now))
	r1 := e.fx.InsertResource(ctx, e.fx.GroupChatResource("one.pdf", g.ID, now))
	r2 := e.fx.InsertResource(ctx, e.fx.GroupChatResource("two.pdf", g.ID, now))
	c1 := e.fx.InsertConversation(ctx, e.fx.GroupConversation("chat", g.ID, now))

	resp := deleteJSON(t, e.srv.URL+"/"+g.ID.Hex(), map[string]any{"email": "admin@example.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	gotGroup, err := e.groups.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if gotGroup.Status != models.GroupSoftDeleted {
		t.Fatalf("expected group %q, got %q", models.GroupSoftDeleted, gotGroup.Status)
	}
	if gotGroup.SoftDeletedAt == nil {
		t.Fatal("expected group soft_deleted_at")
	}

	gotR1, err := e.resources.GetByID(ctx, r1.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	gotR2, err := e.resources.GetByID(ctx, r2.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	gotC1, err := e.conversations.GetByID(ctx, c1.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	for name, st := range map[string]string{
		"resource one": gotR1.Status,
		"resource two": gotR2.Status,
	} {
		if st != models.ResourceSoftDeleted {
			t.Errorf("%s: expected %q, got %q", name, models.ResourceSoftDeleted, st)
		}
	}
	if gotC1.Status != models.ConversationSoftDeleted {
		t.Errorf("conversation: expected %q, got %q", models.ConversationSoftDeleted, gotC1.Status)
	}
	if gotR1.SoftDeletedAt == nil || gotC1.SoftDeletedAt == nil ||
		!gotR1.SoftDeletedAt.Equal(*gotGroup.SoftDeletedAt) ||
		!gotC1.SoftDeletedAt.Equal(*gotGroup.SoftDeletedAt) {
		t.Error("expected one shared soft_deleted_at across the cascade")
	}

	// Exactly one audit entry covers the whole cascade.
	entries, err := e.auditStore.FindByEntity(ctx, audit.EntityGroup, g.ID.Hex())
	if err != nil {
		t.Fatalf("FindByEntity failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 audit entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.EventType != audit.EventGroupManagement {
		t.Errorf("expected event %q, got %q", audit.EventGroupManagement, entry.EventType)
	}
	if entry.InitiatedBy.Email != "admin@example.com" {
		t.Errorf("expected initiator email, got %q", entry.InitiatedBy.Email)
	}
	if entry.Details["cascaded_resources"] != "2" || entry.Details["cascaded_conversations"] != "1" {
		t.Errorf("unexpected cascade counts: %v", entry.Details)
	}
	if entry.Details["group_id"] != g.ID.Hex() {
		t.Errorf("expected group_id %q in details, got %v", g.ID.Hex(), entry.Details)
	}
	if entry.Details["member_count"] != "1" {
		t.Errorf("expected member_count 1 in details, got %v", entry.Details)
	}

	// Deleting again reports not found.
	resp = deleteJSON(t, e.srv.URL+"/"+g.ID.Hex(), map[string]any{"email": "admin@example.com"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 on repeat delete, got %d", resp.StatusCode)
	}
}
