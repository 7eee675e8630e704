// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"github.com/harborware/harborhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureResources(ctx, db); err != nil {
		problems = append(problems, "resources: "+err.Error())
	}
	if err := ensureConversations(ctx, db); err != nil {
		problems = append(problems, "conversations: "+err.Error())
	}
	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := audit.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "audit_log: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("groups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Unique case-insensitive group name
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Expiry scan
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "expires_at", Value: 1},
			},
		},
		// Grace-period scan
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "soft_deleted_at", Value: 1},
			},
		},
		// Membership lookups by email
		{
			Keys: bson.D{{Key: "members.email", Value: 1}},
		},
	})
	return err
}

func ensureResources(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("resources").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Retention scan for personal-chat uploads
		{
			Keys: bson.D{
				{Key: "upload_type", Value: 1},
				{Key: "status", Value: 1},
				{Key: "uploaded_at", Value: 1},
			},
		},
		// Grace-period scan
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "soft_deleted_at", Value: 1},
			},
		},
		// Cascade and counting by owning group
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "status", Value: 1},
			},
		},
	})
	return err
}

func ensureConversations(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("conversations").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Retention scan for personal chats
		{
			Keys: bson.D{
				{Key: "is_personal_chat", Value: 1},
				{Key: "status", Value: 1},
				{Key: "last_message_at", Value: 1},
			},
		},
		// Grace-period scan
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "soft_deleted_at", Value: 1},
			},
		},
		// Cascade by owning group
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "status", Value: 1},
			},
		},
	})
	return err
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Inactivity scan
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "last_login_at", Value: 1},
			},
		},
		// Grace-period scan
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "soft_deleted_at", Value: 1},
			},
		},
	})
	return err
}
