package domain

import "time"

// UserRole describes how an account participates in the marketplace.
type UserRole string

const (
	UserRoleDonor     UserRole = "donor"
	UserRoleRecipient UserRole = "recipient"
	UserRoleBoth      UserRole = "both"
)

// ValidUserRole reports whether role is one of the supported roles.
func ValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleDonor, UserRoleRecipient, UserRoleBoth:
		return true
	}
	return false
}

// User is a registered community member. DonationsMade and RequestsMade are
// derived counters kept in step with the item and request tables; they can be
// recomputed from those tables at any time and are never a source of truth.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          UserRole
	Location      string
	JoinedAt      time.Time
	DonationsMade int
	RequestsMade  int
	Rating        float64
}
