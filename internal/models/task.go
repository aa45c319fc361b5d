package models

import "time"

const (
	StatusPending = "pending"
	StatusDone    = "done"
)

type Task struct {
	ID           string
	UserID       string
	Description  string
	Deadline     *time.Time
	Status       string
	FinishedTime *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
