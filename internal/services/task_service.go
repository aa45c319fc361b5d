package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avoronin/go-tasks/internal/models"
	"github.com/avoronin/go-tasks/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, query ListTasksQuery) ([]*models.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx, userID, normalizeQuery(query))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	description := strings.TrimSpace(params.Description)
	if description == "" {
		s.logger.Warn().
			Str("user_id", params.UserID).
			Msg("empty task description")
		return nil, ErrEmptyDescription
	}

	now := time.Now()
	task := &models.Task{
		UserID:      params.UserID,
		Description: description,
		Deadline:    parseDeadline(params.Deadline),
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	task, err := s.tasks.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	// The ownership-scoped lookup doubles as the source of the prior
	// status for the completion-time side effect below. The read-then-
	// write pair is not atomic; concurrent updates to the same task
	// apply last-write-wins.
	prior, err := s.tasks.GetTask(ctx, params.UserID, params.TaskID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("task_id", params.TaskID).
			Str("user_id", params.UserID).
			Msg("task not found")
		return nil, err
	}

	fields := storage.TaskFields{UpdatedAt: time.Now()}

	if params.Description != nil {
		// Unlike create, update stores the trimmed description even
		// when it trims down to nothing. Long-standing behavior that
		// clients rely on; see the compatibility tests.
		description := strings.TrimSpace(*params.Description)
		fields.Description = &description
	}

	if params.Status != nil {
		switch *params.Status {
		case models.StatusPending, models.StatusDone:
			fields.Status = params.Status
		default:
			// Anything else is silently ignored, not an error.
			s.logger.Debug().
				Str("task_id", params.TaskID).
				Str("status", *params.Status).
				Msg("ignoring unknown status")
		}
	}

	if params.DeadlineSet {
		fields.DeadlineSet = true
		if params.Deadline != nil {
			fields.Deadline = parseDeadline(*params.Deadline)
		}
	}

	if fields.Status != nil {
		switch {
		case *fields.Status == models.StatusDone && prior.Status != models.StatusDone:
			finished := fields.UpdatedAt
			fields.FinishedTime = &finished
			fields.FinishedTimeSet = true
		case *fields.Status == models.StatusPending:
			fields.FinishedTime = nil
			fields.FinishedTimeSet = true
		}
	}

	task, err := s.tasks.UpdateTask(ctx, params.UserID, params.TaskID, fields)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	err := s.tasks.DeleteTask(ctx, userID, taskID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}

func normalizeQuery(query ListTasksQuery) storage.TaskQuery {
	normalized := storage.TaskQuery{
		Search: query.Search,
		Status: query.Status,
	}
	if normalized.Status == "all" {
		normalized.Status = ""
	}

	switch query.SortBy {
	case storage.SortByDeadline, storage.SortByStatus, storage.SortByFinishedTime:
		normalized.SortBy = query.SortBy
	default:
		normalized.SortBy = storage.SortByCreatedAt
	}

	if query.SortOrder == storage.SortAsc {
		normalized.SortOrder = storage.SortAsc
	} else {
		normalized.SortOrder = storage.SortDesc
	}
	return normalized
}

// parseDeadline parses a calendar date from a request value. Deadlines
// arrive either as full timestamps or bare dates; anything unparseable
// (or empty) becomes a null deadline rather than an error.
func parseDeadline(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
