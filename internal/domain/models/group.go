// internal/domain/models/group.go
package models

import (
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group lifecycle statuses.
const (
	GroupActive      = "active"
	GroupExpired     = "expired"
	GroupSoftDeleted = "soft_deleted"
	GroupHardDeleted = "hard_deleted"
)

// Member roles within a group.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// DefaultSpaceLifetimeDays is the lifetime assigned to a group when the
// creator does not choose one.
const DefaultSpaceLifetimeDays = 30

// Identity is an email plus the external identity-provider id, used for
// creators, uploaders, and members across all entity kinds.
type Identity struct {
	Email      string `bson:"email" json:"email"`
	ExternalID string `bson:"external_id" json:"external_id"`
}

// MemberRights are the per-member permission flags consulted when the
// member is not an admin.
type MemberRights struct {
	CanEdit          bool `bson:"can_edit" json:"can_edit"`
	CanDelete        bool `bson:"can_delete" json:"can_delete"`
	CanInvite        bool `bson:"can_invite" json:"can_invite"`
	CanManageMembers bool `bson:"can_manage_members" json:"can_manage_members"`
}

// Member is one entry in a group's ordered member list.
type Member struct {
	Email      string       `bson:"email" json:"email"`
	ExternalID string       `bson:"external_id" json:"external_id"`
	Role       string       `bson:"role" json:"role"`
	JoinedAt   time.Time    `bson:"joined_at" json:"joined_at"`
	Rights     MemberRights `bson:"rights" json:"rights"`
}

// GroupMetadata carries derived counters maintained by the owning features.
type GroupMetadata struct {
	MemberCount    int        `bson:"member_count" json:"member_count"`
	ResourceCount  int        `bson:"resource_count" json:"resource_count"`
	LastActivityAt *time.Time `bson:"last_activity_at,omitempty" json:"last_activity_at,omitempty"`
}

// Group represents a shared workspace.
//
// NOTE:
//   - Members are embedded on the group document: the list is small, ordered,
//     and always read together with the group for rights checks.
//   - ExpiresAt is materialized once by NewGroup and never recomputed, even
//     if SpaceLifetime is edited later.
//   - A group reaches "expired" only through the expiry cleanup job; nothing
//     else may infer expiry from ExpiresAt.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`
	Creator     Identity           `bson:"creator" json:"creator"`
	Members     []Member           `bson:"members" json:"members"`

	// SpaceLifetime is the group lifetime in days chosen at creation.
	SpaceLifetime int       `bson:"space_lifetime" json:"space_lifetime"`
	ExpiresAt     time.Time `bson:"expires_at" json:"expires_at"`

	Status   string        `bson:"status" json:"status"`
	Metadata GroupMetadata `bson:"metadata" json:"metadata"`

	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	SoftDeletedAt *time.Time `bson:"soft_deleted_at,omitempty" json:"soft_deleted_at,omitempty"`
	HardDeletedAt *time.Time `bson:"hard_deleted_at,omitempty" json:"hard_deleted_at,omitempty"`
}

// NewGroup builds an active group with all derived fields materialized.
// The creator becomes the first member with the admin role, which satisfies
// the at-least-one-admin invariant from the start. Additional members keep
// their given order after the creator; a duplicate of the creator is dropped.
func NewGroup(name, description string, creator Identity, spaceLifetimeDays int, members []Member, now time.Time) Group {
	if spaceLifetimeDays <= 0 {
		spaceLifetimeDays = DefaultSpaceLifetimeDays
	}

	all := make([]Member, 0, len(members)+1)
	all = append(all, Member{
		Email:      creator.Email,
		ExternalID: creator.ExternalID,
		Role:       RoleAdmin,
		JoinedAt:   now,
		Rights:     MemberRights{CanEdit: true, CanDelete: true, CanInvite: true, CanManageMembers: true},
	})
	for _, m := range members {
		if m.Email == creator.Email {
			continue
		}
		if m.Role == "" {
			m.Role = RoleMember
		}
		if m.JoinedAt.IsZero() {
			m.JoinedAt = now
		}
		all = append(all, m)
	}

	lastActivity := now
	return Group{
		ID:            primitive.NewObjectID(),
		Name:          name,
		NameCI:        text.Fold(name),
		Description:   description,
		Creator:       creator,
		Members:       all,
		SpaceLifetime: spaceLifetimeDays,
		ExpiresAt:     now.Add(time.Duration(spaceLifetimeDays) * 24 * time.Hour),
		Status:        GroupActive,
		Metadata:      GroupMetadata{MemberCount: len(all), LastActivityAt: &lastActivity},
		CreatedAt:     now,
	}
}
