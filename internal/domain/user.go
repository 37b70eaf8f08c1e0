package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access: company creation and user management.
	RoleAdmin Role = "admin"
	// RoleMember grants standard access to the companies the user belongs to.
	RoleMember Role = "member"
)

// User represents an authenticated user account in the system.
// A user can belong to any number of companies; all tenant-scoped requests
// verify membership before touching company data.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Stored hashed, never serialized
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// CompanyIDs is the set of companies this user is a member of.
	// Populated by the store on read.
	CompanyIDs []string `json:"company_ids,omitempty"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsMemberOf returns true if the user belongs to the given company.
func (u *User) IsMemberOf(companyID string) bool {
	for _, id := range u.CompanyIDs {
		if id == companyID {
			return true
		}
	}
	return false
}
