package domain

import "time"

// Role classifies what an account may do.
type Role string

const (
	// RoleAdmin can act across tenants and perform administrative actions.
	RoleAdmin Role = "ADMIN"
	// RoleUser is confined to its own tenant.
	RoleUser Role = "USER"
)

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Account represents an identity that can authenticate within a tenant.
// Email is unique across all tenants and is matched exactly as stored.
type Account struct {
	ID             int64
	TenantID       int64
	Email          string
	Name           string
	PasswordHash   string
	Role           Role
	FailedAttempts int
	LockedUntil    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
