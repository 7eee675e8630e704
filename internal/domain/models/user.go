// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User lifecycle statuses.
const (
	UserActive      = "active"
	UserInactive    = "inactive"
	UserSoftDeleted = "soft_deleted"
	UserHardDeleted = "hard_deleted"
)

// User is an account known to the workspace. Identity issuance lives in the
// external identity provider; this record only carries what the lifecycle
// engine needs.
type User struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Email      string             `bson:"email" json:"email"`
	ExternalID string             `bson:"external_id" json:"external_id"`

	LastLoginAt time.Time `bson:"last_login_at" json:"last_login_at"`

	Status        string     `bson:"status" json:"status"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	SoftDeletedAt *time.Time `bson:"soft_deleted_at,omitempty" json:"soft_deleted_at,omitempty"`
	HardDeletedAt *time.Time `bson:"hard_deleted_at,omitempty" json:"hard_deleted_at,omitempty"`
}

// NewUser builds an active user whose LastLoginAt starts at creation time.
func NewUser(email, externalID string, now time.Time) User {
	return User{
		ID:          primitive.NewObjectID(),
		Email:       email,
		ExternalID:  externalID,
		LastLoginAt: now,
		Status:      UserActive,
		CreatedAt:   now,
	}
}
