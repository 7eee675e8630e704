// internal/app/policy/memberpolicy/memberpolicy.go

// Package memberpolicy answers authorization questions about a group's
// embedded member list. Admins can do everything; other members fall back to
// their individual rights flags.
package memberpolicy

import (
	"strings"

	"github.com/harborware/harborhub/internal/domain/models"
)

// Actions a member may be allowed to perform on a group.
const (
	ActionEdit          = "edit"
	ActionDelete        = "delete"
	ActionInvite        = "invite"
	ActionManageMembers = "manage_members"
)

// findMember returns the member with the given email, matched
// case-insensitively, or nil.
func findMember(g models.Group, email string) *models.Member {
	for i := range g.Members {
		if strings.EqualFold(g.Members[i].Email, email) {
			return &g.Members[i]
		}
	}
	return nil
}

// IsAdmin reports whether some member with the given email holds the admin
// role in the group.
func IsAdmin(g models.Group, email string) bool {
	m := findMember(g, email)
	return m != nil && m.Role == models.RoleAdmin
}

// CanPerformAction reports whether the member identified by email may
// perform the given action. Admins always can; for everyone else the
// member's individual rights flag for that action decides. Unknown actions
// and non-members are denied.
func CanPerformAction(g models.Group, email, action string) bool {
	m := findMember(g, email)
	if m == nil {
		return false
	}
	if m.Role == models.RoleAdmin {
		return true
	}
	switch action {
	case ActionEdit:
		return m.Rights.CanEdit
	case ActionDelete:
		return m.Rights.CanDelete
	case ActionInvite:
		return m.Rights.CanInvite
	case ActionManageMembers:
		return m.Rights.CanManageMembers
	}
	return false
}
