package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/nalgeon/be"
	"github.com/rs/zerolog"

	"github.com/avoronin/go-tasks/internal/models"
	"github.com/avoronin/go-tasks/internal/services"
	"github.com/avoronin/go-tasks/internal/storage/memory"
)

const (
	ownerID    = "0195c2f0-0000-7000-8000-000000000001"
	strangerID = "0195c2f0-0000-7000-8000-000000000002"
)

func newTaskService(t *testing.T) services.TaskService {
	t.Helper()
	return services.NewTaskService(zerolog.Nop(), memory.New())
}

func strptr(s string) *string {
	return &s
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("trims_description", func(t *testing.T) {
		svc := newTaskService(t)
		task, err := svc.CreateTask(ctx, services.CreateTaskParams{
			UserID:      ownerID,
			Description: "  buy milk  ",
		})
		be.Err(t, err, nil)
		be.Equal(t, task.Description, "buy milk")
		be.Equal(t, task.Status, models.StatusPending)
		be.True(t, task.FinishedTime == nil)
		be.True(t, task.Deadline == nil)
		be.True(t, task.ID != "")
		be.True(t, !task.CreatedAt.IsZero())
		be.Equal(t, task.UpdatedAt, task.CreatedAt)
	})

	t.Run("rejects_whitespace_only", func(t *testing.T) {
		svc := newTaskService(t)
		_, err := svc.CreateTask(ctx, services.CreateTaskParams{
			UserID:      ownerID,
			Description: "  ",
		})
		be.Err(t, err, services.ErrEmptyDescription)
	})

	t.Run("rejects_empty", func(t *testing.T) {
		svc := newTaskService(t)
		_, err := svc.CreateTask(ctx, services.CreateTaskParams{
			UserID: ownerID,
		})
		be.Err(t, err, services.ErrEmptyDescription)
	})

	t.Run("deadline_round_trip", func(t *testing.T) {
		svc := newTaskService(t)
		task, err := svc.CreateTask(ctx, services.CreateTaskParams{
			UserID:      ownerID,
			Description: "pay rent",
			Deadline:    "2026-09-01",
		})
		be.Err(t, err, nil)
		be.True(t, task.Deadline != nil)
		want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		be.True(t, task.Deadline.Equal(want))
	})

	t.Run("deadline_rfc3339", func(t *testing.T) {
		svc := newTaskService(t)
		task, err := svc.CreateTask(ctx, services.CreateTaskParams{
			UserID:      ownerID,
			Description: "call mom",
			Deadline:    "2026-09-01T18:30:00Z",
		})
		be.Err(t, err, nil)
		be.True(t, task.Deadline != nil)
		want := time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)
		be.True(t, task.Deadline.Equal(want))
	})

	t.Run("unparseable_deadline_stores_null", func(t *testing.T) {
		svc := newTaskService(t)
		task, err := svc.CreateTask(ctx, services.CreateTaskParams{
			UserID:      ownerID,
			Description: "water plants",
			Deadline:    "next tuesday",
		})
		be.Err(t, err, nil)
		be.True(t, task.Deadline == nil)
	})
}

func TestUpdateTask_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t)

	task, err := svc.CreateTask(ctx, services.CreateTaskParams{
		UserID:      ownerID,
		Description: "write report",
	})
	be.Err(t, err, nil)

	// pending -> done stamps the completion time.
	updated, err := svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID: ownerID,
		TaskID: task.ID,
		Status: strptr(models.StatusDone),
	})
	be.Err(t, err, nil)
	be.Equal(t, updated.Status, models.StatusDone)
	be.True(t, updated.FinishedTime != nil)
	be.True(t, !updated.FinishedTime.Before(task.CreatedAt))
	finished := *updated.FinishedTime

	// done -> done is a no-op for the completion time.
	updated, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID: ownerID,
		TaskID: task.ID,
		Status: strptr(models.StatusDone),
	})
	be.Err(t, err, nil)
	be.True(t, updated.FinishedTime != nil)
	be.True(t, updated.FinishedTime.Equal(finished))

	// done -> pending always clears it.
	updated, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID: ownerID,
		TaskID: task.ID,
		Status: strptr(models.StatusPending),
	})
	be.Err(t, err, nil)
	be.Equal(t, updated.Status, models.StatusPending)
	be.True(t, updated.FinishedTime == nil)

	// An explicitly requested pending clears even when already pending.
	updated, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID: ownerID,
		TaskID: task.ID,
		Status: strptr(models.StatusPending),
	})
	be.Err(t, err, nil)
	be.True(t, updated.FinishedTime == nil)
}

func TestUpdateTask_UnknownStatusIgnored(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t)

	task, err := svc.CreateTask(ctx, services.CreateTaskParams{
		UserID:      ownerID,
		Description: "sort photos",
	})
	be.Err(t, err, nil)

	updated, err := svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID: ownerID,
		TaskID: task.ID,
		Status: strptr("archived"),
	})
	be.Err(t, err, nil)
	be.Equal(t, updated.Status, models.StatusPending)
	be.True(t, updated.FinishedTime == nil)
	be.True(t, updated.UpdatedAt.After(task.UpdatedAt) || updated.UpdatedAt.Equal(task.UpdatedAt))
}

// Update is deliberately laxer than create: a description that trims
// down to nothing is stored anyway. Clients depend on this.
func TestUpdateTask_DescriptionTrimmedEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t)

	task, err := svc.CreateTask(ctx, services.CreateTaskParams{
		UserID:      ownerID,
		Description: "clean desk",
	})
	be.Err(t, err, nil)

	updated, err := svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID:      ownerID,
		TaskID:      task.ID,
		Description: strptr("   "),
	})
	be.Err(t, err, nil)
	be.Equal(t, updated.Description, "")
}

func TestUpdateTask_Deadline(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t)

	task, err := svc.CreateTask(ctx, services.CreateTaskParams{
		UserID:      ownerID,
		Description: "file taxes",
		Deadline:    "2026-04-15",
	})
	be.Err(t, err, nil)
	be.True(t, task.Deadline != nil)

	// Absent deadline key leaves the stored value alone.
	updated, err := svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID:      ownerID,
		TaskID:      task.ID,
		Description: strptr("file taxes early"),
	})
	be.Err(t, err, nil)
	be.True(t, updated.Deadline != nil)

	// Explicit null clears it.
	updated, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID:      ownerID,
		TaskID:      task.ID,
		Deadline:    nil,
		DeadlineSet: true,
	})
	be.Err(t, err, nil)
	be.True(t, updated.Deadline == nil)

	// A new date sets it.
	updated, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID:      ownerID,
		TaskID:      task.ID,
		Deadline:    strptr("2026-05-01"),
		DeadlineSet: true,
	})
	be.Err(t, err, nil)
	be.True(t, updated.Deadline != nil)
	be.True(t, updated.Deadline.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))

	// An unparseable value behaves like null.
	updated, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID:      ownerID,
		TaskID:      task.ID,
		Deadline:    strptr("whenever"),
		DeadlineSet: true,
	})
	be.Err(t, err, nil)
	be.True(t, updated.Deadline == nil)
}

func TestUpdateTask_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t)

	task, err := svc.CreateTask(ctx, services.CreateTaskParams{
		UserID:      ownerID,
		Description: "private task",
	})
	be.Err(t, err, nil)

	// Another user's task is indistinguishable from a missing one.
	_, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID:      strangerID,
		TaskID:      task.ID,
		Description: strptr("hijacked"),
	})
	be.Err(t, err, services.ErrTaskNotFound)

	_, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		UserID: ownerID,
		TaskID: "0195c2f0-dead-7000-8000-000000000000",
	})
	be.Err(t, err, services.ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t)

	task, err := svc.CreateTask(ctx, services.CreateTaskParams{
		UserID:      ownerID,
		Description: "old task",
	})
	be.Err(t, err, nil)

	err = svc.DeleteTask(ctx, strangerID, task.ID)
	be.Err(t, err, services.ErrTaskNotFound)

	err = svc.DeleteTask(ctx, ownerID, task.ID)
	be.Err(t, err, nil)

	// Idempotent in effect but not in response.
	err = svc.DeleteTask(ctx, ownerID, task.ID)
	be.Err(t, err, services.ErrTaskNotFound)
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t)

	mustCreate := func(userID, description string) *models.Task {
		t.Helper()
		task, err := svc.CreateTask(ctx, services.CreateTaskParams{
			UserID:      userID,
			Description: description,
		})
		be.Err(t, err, nil)
		return task
	}
	mustComplete := func(task *models.Task) {
		t.Helper()
		_, err := svc.UpdateTask(ctx, services.UpdateTaskParams{
			UserID: task.UserID,
			TaskID: task.ID,
			Status: strptr(models.StatusDone),
		})
		be.Err(t, err, nil)
	}

	first := mustCreate(ownerID, "Buy milk")
	second := mustCreate(ownerID, "Buy stamps")
	third := mustCreate(ownerID, "Walk the dog")
	mustCreate(strangerID, "Buy a boat")

	mustComplete(third)
	mustComplete(first)

	t.Run("scoped_to_owner", func(t *testing.T) {
		tasks, err := svc.ListTasks(ctx, ownerID, services.ListTasksQuery{})
		be.Err(t, err, nil)
		be.Equal(t, len(tasks), 3)
		for _, task := range tasks {
			be.Equal(t, task.UserID, ownerID)
		}
	})

	t.Run("default_sort_created_at_desc", func(t *testing.T) {
		tasks, err := svc.ListTasks(ctx, ownerID, services.ListTasksQuery{})
		be.Err(t, err, nil)
		be.Equal(t, tasks[0].ID, third.ID)
		be.Equal(t, tasks[1].ID, second.ID)
		be.Equal(t, tasks[2].ID, first.ID)
	})

	t.Run("search_case_insensitive", func(t *testing.T) {
		tasks, err := svc.ListTasks(ctx, ownerID, services.ListTasksQuery{Search: "bUy"})
		be.Err(t, err, nil)
		be.Equal(t, len(tasks), 2)
	})

	t.Run("status_filter", func(t *testing.T) {
		tasks, err := svc.ListTasks(ctx, ownerID, services.ListTasksQuery{Status: models.StatusPending})
		be.Err(t, err, nil)
		be.Equal(t, len(tasks), 1)
		be.Equal(t, tasks[0].ID, second.ID)
	})

	t.Run("status_all_matches_everything", func(t *testing.T) {
		tasks, err := svc.ListTasks(ctx, ownerID, services.ListTasksQuery{Status: "all"})
		be.Err(t, err, nil)
		be.Equal(t, len(tasks), 3)
	})

	t.Run("unknown_status_matches_nothing", func(t *testing.T) {
		tasks, err := svc.ListTasks(ctx, ownerID, services.ListTasksQuery{Status: "archived"})
		be.Err(t, err, nil)
		be.Equal(t, len(tasks), 0)
	})

	t.Run("done_by_finished_time_asc", func(t *testing.T) {
		tasks, err := svc.ListTasks(ctx, ownerID, services.ListTasksQuery{
			Status:    models.StatusDone,
			SortBy:    "finishedTime",
			SortOrder: "asc",
		})
		be.Err(t, err, nil)
		be.Equal(t, len(tasks), 2)
		// Third was completed before first.
		be.Equal(t, tasks[0].ID, third.ID)
		be.Equal(t, tasks[1].ID, first.ID)
		be.True(t, !tasks[0].FinishedTime.After(*tasks[1].FinishedTime))
	})

	t.Run("unknown_sort_field_falls_back", func(t *testing.T) {
		tasks, err := svc.ListTasks(ctx, ownerID, services.ListTasksQuery{SortBy: "priority"})
		be.Err(t, err, nil)
		be.Equal(t, tasks[0].ID, third.ID)
	})
}
