package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avoronin/go-tasks/internal/models"
	"github.com/avoronin/go-tasks/internal/storage"
)

func (m *Store) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	taskUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task uuid: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *cloneTask(*task)
	stored.ID = taskUUID.String()

	m.seq++
	m.tasks[stored.ID] = &taskRecord{task: stored, seq: m.seq}
	return cloneTask(stored), nil
}

func (m *Store) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.tasks[taskID]
	if !exists || rec.task.UserID != userID {
		return nil, storage.ErrTaskNotFound
	}
	return cloneTask(rec.task), nil
}

func (m *Store) ListTasks(ctx context.Context, userID string, query storage.TaskQuery) ([]*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(query.Search)
	matched := make([]*taskRecord, 0)
	for _, rec := range m.tasks {
		if rec.task.UserID != userID {
			continue
		}
		if query.Status != "" && rec.task.Status != query.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.task.Description), search) {
			continue
		}
		matched = append(matched, rec)
	}

	desc := query.SortOrder != storage.SortAsc
	sort.SliceStable(matched, func(i, j int) bool {
		c := compareTasks(&matched[i].task, &matched[j].task, query.SortBy)
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return matched[i].seq < matched[j].seq
	})

	tasks := make([]*models.Task, len(matched))
	for i, rec := range matched {
		tasks[i] = cloneTask(rec.task)
	}
	return tasks, nil
}

func (m *Store) UpdateTask(ctx context.Context, userID, taskID string, fields storage.TaskFields) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.tasks[taskID]
	if !exists || rec.task.UserID != userID {
		return nil, storage.ErrTaskNotFound
	}

	if fields.Description != nil {
		rec.task.Description = *fields.Description
	}
	if fields.Status != nil {
		rec.task.Status = *fields.Status
	}
	if fields.DeadlineSet {
		rec.task.Deadline = fields.Deadline
	}
	if fields.FinishedTimeSet {
		rec.task.FinishedTime = fields.FinishedTime
	}
	rec.task.UpdatedAt = fields.UpdatedAt

	return cloneTask(rec.task), nil
}

func (m *Store) DeleteTask(ctx context.Context, userID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.tasks[taskID]
	if !exists || rec.task.UserID != userID {
		return storage.ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

func compareTasks(a, b *models.Task, sortBy string) int {
	switch sortBy {
	case storage.SortByDeadline:
		return compareNullableTime(a.Deadline, b.Deadline)
	case storage.SortByStatus:
		return strings.Compare(a.Status, b.Status)
	case storage.SortByFinishedTime:
		return compareNullableTime(a.FinishedTime, b.FinishedTime)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// compareNullableTime treats nil as the greatest value, matching the
// postgres default of NULLS LAST on ascending sorts.
func compareNullableTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
