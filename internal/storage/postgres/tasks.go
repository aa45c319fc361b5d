package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avoronin/go-tasks/internal/models"
	"github.com/avoronin/go-tasks/internal/storage"
)

func (s *Store) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	taskUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task uuid: %w", err)
	}
	task.ID = taskUUID.String()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   description,
                   deadline,
                   status,
                   finished_time,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err = s.pool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Description,
		task.Deadline,
		task.Status,
		task.FinishedTime,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return task, nil
}

func (s *Store) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task := &models.Task{
		ID:     taskID,
		UserID: userID,
	}

	const selectTaskQuery = `
SELECT description,
       deadline,
       status,
       finished_time,
       created_at,
       updated_at
FROM tasks
WHERE id = $1 AND user_id = $2
`
	err := s.pool.QueryRow(
		ctx,
		selectTaskQuery,
		task.ID,
		task.UserID,
	).Scan(
		&task.Description,
		&task.Deadline,
		&task.Status,
		&task.FinishedTime,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to select task: %w", err)
	}
	return task, nil
}

func (s *Store) ListTasks(ctx context.Context, userID string, query storage.TaskQuery) ([]*models.Task, error) {
	sql := `
SELECT id,
       description,
       deadline,
       status,
       finished_time,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1`
	args := []any{userID}

	if query.Status != "" {
		args = append(args, query.Status)
		sql += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if query.Search != "" {
		args = append(args, "%"+escapeLike(query.Search)+"%")
		sql += fmt.Sprintf(` AND description ILIKE $%d ESCAPE '\'`, len(args))
	}

	// The id is a UUIDv7, so the tiebreak follows insertion order.
	sql += fmt.Sprintf(" ORDER BY %s %s, id ASC",
		sortColumn(query.SortBy), sortDirection(query.SortOrder))

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Description,
			&task.Deadline,
			&task.Status,
			&task.FinishedTime,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, userID, taskID string, fields storage.TaskFields) (*models.Task, error) {
	var set []string
	var args []any
	assign := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Description != nil {
		assign("description", *fields.Description)
	}
	if fields.Status != nil {
		assign("status", *fields.Status)
	}
	if fields.DeadlineSet {
		assign("deadline", fields.Deadline)
	}
	if fields.FinishedTimeSet {
		assign("finished_time", fields.FinishedTime)
	}
	assign("updated_at", fields.UpdatedAt)

	args = append(args, taskID, userID)
	sql := fmt.Sprintf(`
UPDATE tasks
SET %s
WHERE id = $%d AND user_id = $%d
RETURNING description, deadline, status, finished_time, created_at, updated_at
`, strings.Join(set, ",\n    "), len(args)-1, len(args))

	task := &models.Task{
		ID:     taskID,
		UserID: userID,
	}
	err := s.pool.QueryRow(ctx, sql, args...).Scan(
		&task.Description,
		&task.Deadline,
		&task.Status,
		&task.FinishedTime,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, userID, taskID string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

// sortColumn maps a storage sort field to a column name. The field has
// already been normalized by the service layer, so anything unexpected
// simply falls back to created_at rather than reaching the SQL text.
func sortColumn(sortBy string) string {
	switch sortBy {
	case storage.SortByDeadline:
		return "deadline"
	case storage.SortByStatus:
		return "status"
	case storage.SortByFinishedTime:
		return "finished_time"
	default:
		return "created_at"
	}
}

func sortDirection(order string) string {
	if order == storage.SortAsc {
		return "ASC"
	}
	return "DESC"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
