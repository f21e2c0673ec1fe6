package domain

import "time"

// AlertTypeSecurity tags alerts raised by the failed-login tracker.
const AlertTypeSecurity = "SECURITY"

// SecurityAlert records a detected brute-force pattern against one account.
// At most one unresolved alert exists per account at a time, keyed on
// AccountID rather than matched by message text.
type SecurityAlert struct {
	ID        int64
	AccountID int64
	Message   string
	Type      string
	Resolved  bool
	CreatedAt time.Time
}
