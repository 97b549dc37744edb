package domain

import "strings"

// Role is the coarse permission level attached to a user by the upstream
// identity provider. The backend performs no credential handling; it only
// compares roles against per-route allow lists.
type Role string

// Known roles, from most to least privileged.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleWorker  Role = "worker"
	RoleViewer  Role = "viewer"
)

// ParseRole normalizes a raw role string. Unknown or empty values map to
// RoleViewer so that a missing header degrades to read-only access rather
// than failing open.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	case RoleWorker:
		return RoleWorker
	default:
		return RoleViewer
	}
}

// CanAny reports whether r is one of the allowed roles. This is the single
// capability check used by every role-gated route; handlers never compare
// roles directly.
func (r Role) CanAny(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
