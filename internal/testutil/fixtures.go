// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/harborware/harborhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for seeding test data. Builders return
// fully formed models the test can tweak before inserting; Insert* methods
// write them through the same collections the stores read.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, collection string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s failed: %v", collection, err)
	}
}

// InsertGroup writes a group document and returns it unchanged.
func (f *Fixtures) InsertGroup(ctx context.Context, g models.Group) models.Group {
	f.insert(ctx, "groups", g)
	return g
}

// InsertResource writes a resource document and returns it unchanged.
func (f *Fixtures) InsertResource(ctx context.Context, r models.Resource) models.Resource {
	f.insert(ctx, "resources", r)
	return r
}

// InsertConversation writes a conversation document and returns it unchanged.
func (f *Fixtures) InsertConversation(ctx context.Context, c models.Conversation) models.Conversation {
	f.insert(ctx, "conversations", c)
	return c
}

// InsertUser writes a user document and returns it unchanged.
func (f *Fixtures) InsertUser(ctx context.Context, u models.User) models.User {
	f.insert(ctx, "users", u)
	return u
}

// Group builds an active group created at the given time.
func (f *Fixtures) Group(name, creatorEmail string, lifetimeDays int, now time.Time) models.Group {
	f.t.Helper()
	return models.NewGroup(name, "test group", models.Identity{Email: creatorEmail, ExternalID: "ext-" + creatorEmail}, lifetimeDays, nil, now)
}

// PersonalChatResource builds an active personal-chat resource uploaded at
// the given time.
func (f *Fixtures) PersonalChatResource(fileName string, uploadedAt time.Time) models.Resource {
	f.t.Helper()
	conv := primitive.NewObjectID()
	r, err := models.NewResource(fileName, "/blobs/"+fileName, 2048, "application/pdf", models.UploadPersonalChat,
		conv, models.Identity{Email: "uploader@example.com"}, uploadedAt)
	if err != nil {
		f.t.Fatalf("build resource: %v", err)
	}
	return r
}

// GroupChatResource builds an active group-chat resource owned by groupID.
func (f *Fixtures) GroupChatResource(fileName string, groupID primitive.ObjectID, uploadedAt time.Time) models.Resource {
	f.t.Helper()
	r, err := models.NewResource(fileName, "/blobs/"+fileName, 2048, "application/pdf", models.UploadGroupChat,
		groupID, models.Identity{Email: "uploader@example.com"}, uploadedAt)
	if err != nil {
		f.t.Fatalf("build resource: %v", err)
	}
	return r
}

// PersonalConversation builds an active personal chat with its last message
// at the given time.
func (f *Fixtures) PersonalConversation(title string, lastMessageAt time.Time) models.Conversation {
	f.t.Helper()
	c := models.NewConversation(title, []string{"user@example.com"}, nil, true, lastMessageAt)
	return c
}

// GroupConversation builds an active group chat owned by groupID.
func (f *Fixtures) GroupConversation(title string, groupID primitive.ObjectID, lastMessageAt time.Time) models.Conversation {
	f.t.Helper()
	return models.NewConversation(title, []string{"a@example.com", "b@example.com"}, &groupID, false, lastMessageAt)
}

// User builds an active user whose last login was at the given time.
func (f *Fixtures) User(email string, lastLoginAt time.Time) models.User {
	f.t.Helper()
	return models.NewUser(email, "ext-"+email, lastLoginAt)
}

// SoftDeletedResource flips a prepared resource into the soft-deleted state
// used by grace-period tests.
func SoftDeletedResource(r models.Resource, at time.Time) models.Resource {
	r.Status = models.ResourceSoftDeleted
	r.SoftDeletedAt = &at
	return r
}

func SoftDeletedConversation(c models.Conversation, at time.Time) models.Conversation {
	c.Status = models.ConversationSoftDeleted
	c.SoftDeletedAt = &at
	return c
}

func SoftDeletedUser(u models.User, at time.Time) models.User {
	u.Status = models.UserSoftDeleted
	u.SoftDeletedAt = &at
	return u
}
