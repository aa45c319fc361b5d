package models

import "time"

type Session struct {
	ID           string
	UserID       string
	Fingerprint  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the resolved identity attached to an authenticated request.
type Principal struct {
	UserID string
	Email  string
	Name   string
}
