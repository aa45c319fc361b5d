package services

import (
	"context"
	"errors"
	"time"

	"github.com/avoronin/go-tasks/internal/models"
	"github.com/avoronin/go-tasks/internal/storage"
)

var (
	ErrTaskNotFound         = storage.ErrTaskNotFound
	ErrEmptyDescription     = errors.New("task description cannot be empty")
	ErrUserNotFound         = storage.ErrUserNotFound
	ErrUserAlreadyExists    = storage.ErrEmailTaken
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = storage.ErrSessionNotFound
	ErrSessionExpired       = errors.New("session expired")
)

type TaskService interface {
	// ListTasks returns all of the user's tasks matching the query.
	// Unrecognized sort fields fall back to createdAt, unrecognized
	// sort orders to descending.
	ListTasks(ctx context.Context, userID string, query ListTasksQuery) ([]*models.Task, error)

	// CreateTask stores a new pending task with a trimmed description.
	//
	// It returns ErrEmptyDescription if the description
	// is empty or whitespace-only.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// UpdateTask applies the requested subset of fields to the task.
	//
	// Moving the task into done stamps the completion time; an
	// explicitly requested pending status always clears it.
	//
	// It returns ErrTaskNotFound if the task doesn't
	// exist under the given user id.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask permanently removes the task, or returns
	// ErrTaskNotFound if the user owns no such task.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It replaces all sessions with the same user ID with
	// a new one and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh rotates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ResolveSession turns an access token into the acting principal.
	// A user without a display name gets one generated from the email
	// local-part and persisted on first resolution.
	//
	// It returns ErrSessionNotFound if the token's session doesn't
	// exist or the fingerprint doesn't match, and ErrSessionExpired
	// if the session is past its expiry.
	ResolveSession(ctx context.Context, accessToken, fingerprint string) (*models.Principal, error)
}

type ListTasksQuery struct {
	Search    string
	Status    string
	SortBy    string
	SortOrder string
}

type CreateTaskParams struct {
	UserID      string
	Description string
	Deadline    string
}

// UpdateTaskParams carries a partial update. Nil fields were absent from
// the request. DeadlineSet distinguishes an absent deadline key from an
// explicit null, which clears the stored value.
type UpdateTaskParams struct {
	UserID      string
	TaskID      string
	Description *string
	Status      *string
	Deadline    *string
	DeadlineSet bool
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}
