package models

import "github.com/google/uuid"

// Role governs route-level and record-level access. Always explicit on the
// user account, never inferred.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// IsValid reports whether r is one of the closed set of roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Identity is the decoded session token attached to a request after
// authentication. It is the sole source of identity downstream.
type Identity struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

// CanAccessOwned is the owner-or-elevated-role policy: ADMIN and TEACHER may
// access any record, a STUDENT only records owned by their own user id.
func CanAccessOwned(identity Identity, ownerUserID uuid.UUID) bool {
	if identity.Role != RoleStudent {
		return true
	}
	return identity.UserID == ownerUserID
}
