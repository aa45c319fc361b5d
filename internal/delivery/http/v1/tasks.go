package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avoronin/go-tasks/internal/models"
	"github.com/avoronin/go-tasks/internal/services"
)

type taskResponse struct {
	ID           string     `json:"id"`
	Task         string     `json:"task"`
	Deadline     *time.Time `json:"deadline"`
	Status       string     `json:"status"`
	FinishedTime *time.Time `json:"finishedTime"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:           task.ID,
		Task:         task.Description,
		Deadline:     task.Deadline,
		Status:       task.Status,
		FinishedTime: task.FinishedTime,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	principal, exists := getPrincipal(c)
	if !exists {
		h.logger.Error().Msg("no principal found in context")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	tasks, err := h.tasks.ListTasks(c, principal.UserID, services.ListTasksQuery{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}

	c.JSON(http.StatusOK, gin.H{"tasks": response})
}

type createTaskRequest struct {
	Task     string  `json:"task"`
	Deadline *string `json:"deadline,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	principal, exists := getPrincipal(c)
	if !exists {
		h.logger.Error().Msg("no principal found in context")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.CreateTaskParams{
		UserID:      principal.UserID,
		Description: req.Task,
	}
	if req.Deadline != nil {
		params.Deadline = *req.Deadline
	}

	task, err := h.tasks.CreateTask(c, params)
	if err != nil {
		if errors.Is(err, services.ErrEmptyDescription) {
			abort(c, newBadRequestError(services.ErrEmptyDescription.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": newTaskResponse(task)})
}

// updateTaskRequest is a partial update. The deadline is kept raw so an
// absent key and an explicit null stay distinguishable: null (or any
// non-date value) clears the stored deadline, absence leaves it alone.
type updateTaskRequest struct {
	Task     *string         `json:"task"`
	Status   *string         `json:"status"`
	Deadline json.RawMessage `json:"deadline"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	principal, exists := getPrincipal(c)
	if !exists {
		h.logger.Error().Msg("no principal found in context")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Warn().Msg("no task id provided")
		abort(c, newBadRequestError("invalid task id"))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.UpdateTaskParams{
		UserID:      principal.UserID,
		TaskID:      taskID,
		Description: req.Task,
		Status:      req.Status,
	}
	if len(req.Deadline) > 0 {
		params.DeadlineSet = true
		// A non-string value (null included) behaves like an
		// unparseable date and clears the deadline.
		var deadline *string
		if err := json.Unmarshal(req.Deadline, &deadline); err == nil {
			params.Deadline = deadline
		}
	}

	task, err := h.tasks.UpdateTask(c, params)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": newTaskResponse(task)})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	principal, exists := getPrincipal(c)
	if !exists {
		h.logger.Error().Msg("no principal found in context")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Warn().Msg("no task id provided")
		abort(c, newBadRequestError("invalid task id"))
		return
	}

	err := h.tasks.DeleteTask(c, principal.UserID, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
