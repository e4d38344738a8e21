package domain

import "time"

// Reminder is a dated note owned by a single user.
type Reminder struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	RemindOn    string // YYYY-MM-DD
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
