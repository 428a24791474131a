package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow-api/internal/dto"
	apierrors "github.com/taskflow-dev/taskflow-api/internal/errors"
	"github.com/taskflow-dev/taskflow-api/internal/middleware"
	"github.com/taskflow-dev/taskflow-api/internal/models"
	"github.com/taskflow-dev/taskflow-api/internal/services"
	"github.com/taskflow-dev/taskflow-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the current user's tasks, optionally filtered by project.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var projectID *uint64
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		// 0 is not a valid project id; treat it as "no filter"
		if id != 0 {
			projectID = &id
		}
	}

	page := utils.GetPageParams(c)

	tasks, err := h.taskService.List(user.ID, projectID, page)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// CreateTask creates a task owned by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(user, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(*task))
}

// UpdateTask applies a partial update to a task. The raw body is parsed
// as a map so an explicit null can be told apart from an absent field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := buildUpdateTaskInput(c, raw)
	if !ok {
		return
	}

	task, err := h.taskService.Update(taskID, user, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// DeleteTask soft-deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(taskID, user.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MsgResponse{Msg: "Task deleted successfully"})
}

func buildUpdateTaskInput(c *gin.Context, raw map[string]any) (services.UpdateTaskInput, bool) {
	var input services.UpdateTaskInput

	if value, present := raw["title"]; present {
		s, ok := value.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid title")
			return input, false
		}
		input.Title = &s
	}
	if value, present := raw["description"]; present {
		s, ok := value.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid description")
			return input, false
		}
		input.Description = &s
	}
	if value, present := raw["status"]; present {
		s, ok := value.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid status")
			return input, false
		}
		status := models.TaskStatus(s)
		input.Status = &status
	}
	if value, present := raw["priority"]; present {
		s, ok := value.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid priority")
			return input, false
		}
		priority := models.TaskPriority(s)
		input.Priority = &priority
	}
	if value, present := raw["due_date"]; present {
		if value == nil {
			input.ClearDueDate = true
		} else {
			s, ok := value.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid due_date")
				return input, false
			}
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date")
				return input, false
			}
			input.DueDate = &parsed
		}
	}
	if value, present := raw["project_id"]; present {
		if value == nil {
			input.ClearProjectID = true
		} else {
			f, ok := value.(float64)
			if !ok {
				apierrors.BadRequest(c, "Invalid project_id")
				return input, false
			}
			id := uint64(f)
			input.ProjectID = &id
		}
	}

	return input, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrTaskForbidden):
		apierrors.Forbidden(c, "Not authorized to update this task")
	case errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
