// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"time"

	"github.com/harborware/harborhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) Insert(ctx context.Context, u models.User) error {
	_, err := s.c.InsertOne(ctx, u)
	return err
}

// MarkInactiveBulk flips every active user whose last login is strictly
// older than the cutoff to inactive in one set-based update. Inactivity
// needs no per-row detail, so this is the one bulk transition in the engine;
// the caller writes a single aggregate audit entry when the count is
// non-zero.
func (s *Store) MarkInactiveBulk(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"status":        models.UserActive,
			"last_login_at": bson.M{"$lt": cutoff},
		},
		bson.M{"$set": bson.M{"status": models.UserInactive}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// FindGraceExpired returns soft-deleted users whose grace period ended
// strictly before the cutoff.
func (s *Store) FindGraceExpired(ctx context.Context, cutoff time.Time) ([]models.User, error) {
	cursor, err := s.c.Find(ctx,
		bson.M{
			"status":          models.UserSoftDeleted,
			"soft_deleted_at": bson.M{"$lt": cutoff},
		},
		options.Find().SetSort(bson.D{{Key: "soft_deleted_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// HardDelete transitions one user from soft_deleted to hard_deleted.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.UserSoftDeleted},
		bson.M{"$set": bson.M{
			"status":          models.UserHardDeleted,
			"hard_deleted_at": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
