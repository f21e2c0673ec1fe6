package domain

import "time"

// Tenant represents a registered company. Every resource belongs to exactly
// one tenant; the seeded default tenant hosts the break-glass administrator.
type Tenant struct {
	ID        int64
	Name      string
	Address   string
	Contact   string
	Sector    string
	LogoURL   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
