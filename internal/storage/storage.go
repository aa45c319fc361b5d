package storage

import (
	"context"
	"errors"
	"time"

	"github.com/avoronin/go-tasks/internal/models"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("user with this email already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// Sort fields accepted by TaskStore.ListTasks. The task service
// normalizes user input to one of these before calling the store.
const (
	SortByCreatedAt    = "createdAt"
	SortByDeadline     = "deadline"
	SortByStatus       = "status"
	SortByFinishedTime = "finishedTime"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// TaskQuery configures ListTasks. Search is a case-insensitive substring
// match on the description; an empty string matches everything. Status is
// an exact match filter; an empty string applies no filter. SortBy and
// SortOrder must be one of the constants above.
type TaskQuery struct {
	Search    string
	Status    string
	SortBy    string
	SortOrder string
}

// TaskFields is a partial update. Nil pointer fields are left untouched.
// Deadline and FinishedTime are nullable columns, so a nil pointer alone
// cannot express "set to NULL"; the Set flags mark which of the two are
// part of this update.
type TaskFields struct {
	Description     *string
	Status          *string
	Deadline        *time.Time
	DeadlineSet     bool
	FinishedTime    *time.Time
	FinishedTimeSet bool
	UpdatedAt       time.Time
}

// TaskStore persists tasks. Every method takes the owning user's id and
// composes it into the query predicate, so a task belonging to another
// user is indistinguishable from a non-existent one.
type TaskStore interface {
	// CreateTask inserts the task and returns it with the store-assigned id.
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)

	// GetTask returns ErrTaskNotFound if no task with the given
	// id exists under the given user id.
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)

	// ListTasks returns all of the user's tasks matching the query,
	// ordered by the requested field with ties broken by insertion order.
	ListTasks(ctx context.Context, userID string, query TaskQuery) ([]*models.Task, error)

	// UpdateTask applies the given fields and returns the updated task,
	// or ErrTaskNotFound.
	UpdateTask(ctx context.Context, userID, taskID string, fields TaskFields) (*models.Task, error)

	// DeleteTask removes the task, or returns ErrTaskNotFound
	// if no matching row existed.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type UserStore interface {
	// CreateUser returns ErrEmailTaken if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// SetUserName updates the display name only.
	SetUserName(ctx context.Context, userID, name string, updatedAt time.Time) error
}

type SessionStore interface {
	// ReplaceUserSessions atomically deletes every session belonging to
	// session.UserID and inserts the given one.
	ReplaceUserSessions(ctx context.Context, session *models.Session) error

	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
	GetSessionByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error)

	UpdateSession(ctx context.Context, session *models.Session) error
	DeleteUserSessions(ctx context.Context, userID string) error
}

// Storage is the full store surface the application wires up at startup.
type Storage interface {
	TaskStore
	UserStore
	SessionStore
}
