package domain

import "time"

// Role is the coarse privilege label attached to a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Approval flag values for the users.approved_yn column.
const (
	ApprovedYes = "Y"
	ApprovedNo  = "N"
)

// User is the identity + credential record. PasswordHash is never
// serialized to clients.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	ApprovedYN   string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsApproved reports whether login is permitted for this account.
func (u *User) IsApproved() bool {
	return u.ApprovedYN == ApprovedYes
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
