package models

import "time"

// ErrorLog is one user-visible failure captured for later inspection.
// Entries are kept newest first.
type ErrorLog struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}
