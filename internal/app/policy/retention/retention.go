// internal/app/policy/retention/retention.go

// Package retention holds the pure lifecycle decision logic. Given an entity
// and the current time it decides whether the entity must transition, to
// which status, and why. It performs no I/O; the cleanup jobs feed it store
// results and apply whatever it decides.
package retention

import (
	"fmt"
	"time"

	"github.com/harborware/harborhub/internal/domain/models"
)

// Default windows. All age comparisons are strictly greater-than: an entity
// sitting exactly on a boundary is not transitioned, so repeated runs at the
// same instant cannot flap.
const (
	DefaultRetentionWindow = 60 * 24 * time.Hour
	DefaultGracePeriod     = 3 * 24 * time.Hour
)

// Rules carries the configured retention windows.
type Rules struct {
	// RetentionWindow is how long an active personal-chat resource,
	// personal conversation, or user login may age before soft deletion
	// (or inactivity for users).
	RetentionWindow time.Duration
	// GracePeriod is the recovery window between soft delete and hard
	// delete eligibility.
	GracePeriod time.Duration
}

// Default returns the stock 60-day / 3-day rules.
func Default() Rules {
	return Rules{RetentionWindow: DefaultRetentionWindow, GracePeriod: DefaultGracePeriod}
}

// Transition is a decided status change. A nil *Transition means the entity
// stays as it is.
type Transition struct {
	To     string
	Reason string
}

func days(d time.Duration) int {
	return int(d / (24 * time.Hour))
}

// ForResource decides the next transition for a resource. Only
// personal-chat uploads age out; project and group-chat uploads are retained
// until their owner is deleted.
func (r Rules) ForResource(res models.Resource, now time.Time) *Transition {
	switch res.Status {
	case models.ResourceActive:
		if res.UploadType != models.UploadPersonalChat {
			return nil
		}
		if now.Sub(res.UploadedAt) > r.RetentionWindow {
			return &Transition{
				To:     models.ResourceSoftDeleted,
				Reason: fmt.Sprintf("personal chat resource older than %d days", days(r.RetentionWindow)),
			}
		}
	case models.ResourceSoftDeleted:
		if res.SoftDeletedAt != nil && now.Sub(*res.SoftDeletedAt) > r.GracePeriod {
			return &Transition{
				To:     models.ResourceHardDeleted,
				Reason: fmt.Sprintf("grace period of %d days elapsed since soft delete", days(r.GracePeriod)),
			}
		}
	}
	return nil
}

// ForConversation decides the next transition for a conversation, keyed on
// the last message time for personal chats.
func (r Rules) ForConversation(c models.Conversation, now time.Time) *Transition {
	switch c.Status {
	case models.ConversationActive:
		if !c.IsPersonalChat {
			return nil
		}
		if now.Sub(c.LastMessageAt) > r.RetentionWindow {
			return &Transition{
				To:     models.ConversationSoftDeleted,
				Reason: fmt.Sprintf("personal chat idle for more than %d days", days(r.RetentionWindow)),
			}
		}
	case models.ConversationSoftDeleted:
		if c.SoftDeletedAt != nil && now.Sub(*c.SoftDeletedAt) > r.GracePeriod {
			return &Transition{
				To:     models.ConversationHardDeleted,
				Reason: fmt.Sprintf("grace period of %d days elapsed since soft delete", days(r.GracePeriod)),
			}
		}
	}
	return nil
}

// ForUser decides the next transition for a user. Active users who have not
// logged in within the retention window become inactive (not soft-deleted:
// inactivity is recoverable by simply logging in). Soft-deleted users are
// hard-deleted after the grace period.
func (r Rules) ForUser(u models.User, now time.Time) *Transition {
	switch u.Status {
	case models.UserActive:
		if now.Sub(u.LastLoginAt) > r.RetentionWindow {
			return &Transition{
				To:     models.UserInactive,
				Reason: fmt.Sprintf("no login for more than %d days", days(r.RetentionWindow)),
			}
		}
	case models.UserSoftDeleted:
		if u.SoftDeletedAt != nil && now.Sub(*u.SoftDeletedAt) > r.GracePeriod {
			return &Transition{
				To:     models.UserHardDeleted,
				Reason: fmt.Sprintf("grace period of %d days elapsed since soft delete", days(r.GracePeriod)),
			}
		}
	}
	return nil
}

// ForGroup decides group expiry. Expiry is independent of deletion: an
// expired group is never advanced to soft_deleted here, and deletion is only
// ever user-initiated. ExpiresAt was fixed at creation.
func (r Rules) ForGroup(g models.Group, now time.Time) *Transition {
	if g.Status != models.GroupActive {
		return nil
	}
	if now.After(g.ExpiresAt) {
		return &Transition{
			To:     models.GroupExpired,
			Reason: fmt.Sprintf("space lifetime of %d days elapsed", g.SpaceLifetime),
		}
	}
	return nil
}
