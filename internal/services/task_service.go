package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/taskflow-dev/taskflow-api/internal/constants"
	"github.com/taskflow-dev/taskflow-api/internal/models"
	"github.com/taskflow-dev/taskflow-api/internal/repository"
	"github.com/taskflow-dev/taskflow-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskForbidden   = errors.New("not authorized to update this task")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrTitleTooLong    = errors.New("title is too long")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// DueSoonWindow is the lookahead within which a newly created task
// triggers a due-soon notification.
const DueSoonWindow = 24 * time.Hour

// DueSoonNotifier schedules advisory notifications. Enqueue must not block.
type DueSoonNotifier interface {
	Enqueue(email, message string) bool
}

// TaskService handles task business logic
type TaskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	notifier DueSoonNotifier

	// now is swappable for tests
	now func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, notifier DueSoonNotifier) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	ProjectID   *uint64
}

// UpdateTaskInput represents input for updating a task. Nil fields are
// left untouched; the Clear flags express an explicit null.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	DueDate        *time.Time
	ClearDueDate   bool
	ProjectID      *uint64
	ClearProjectID bool
}

// List returns the user's non-deleted tasks, optionally filtered by project
func (s *TaskService) List(ownerID uint64, projectID *uint64, page utils.PageParams) ([]models.Task, error) {
	tasks, err := s.tasks.ListVisible(ownerID, projectID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create creates a new task owned by the given user. If a project is
// referenced it must belong to the same user. When the due date falls
// within the next 24 hours a due-soon notification is scheduled after
// the task is persisted; delivery is best-effort and never fails the
// creation.
func (s *TaskService) Create(owner *models.User, input CreateTaskInput) (*models.Task, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	} else if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if input.ProjectID != nil {
		if err := s.ensureProjectOwned(*input.ProjectID, owner.ID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		OwnerID:     owner.ID,
	}

	if err := s.tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.scheduleDueSoon(owner, task)

	return task, nil
}

// Update applies a partial update to a task. The task is loaded without
// an owner filter so that an existing task owned by someone else is
// reported as forbidden rather than not found.
func (s *TaskService) Update(id uint64, owner *models.User, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.tasks.FindNotDeleted(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != owner.ID {
		return nil, ErrTaskForbidden
	}

	if input.ProjectID != nil {
		if err := s.ensureProjectOwned(*input.ProjectID, owner.ID); err != nil {
			return nil, err
		}
	}

	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearProjectID {
		task.ProjectID = nil
	} else if input.ProjectID != nil {
		task.ProjectID = input.ProjectID
	}

	if err := s.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete soft-deletes a task owned by the given user
func (s *TaskService) Delete(id, ownerID uint64) error {
	task, err := s.tasks.FindVisible(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	task.IsDeleted = true
	if err := s.tasks.Save(task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ensureProjectOwned verifies the referenced project belongs to the user.
// The lookup filters by owner only; a soft-deleted project still
// satisfies it.
func (s *TaskService) ensureProjectOwned(projectID, ownerID uint64) error {
	if _, err := s.projects.FindByIDAndOwner(projectID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to verify project: %w", err)
	}
	return nil
}

// scheduleDueSoon enqueues a notification when the task's due date falls
// strictly between now and now + DueSoonWindow.
func (s *TaskService) scheduleDueSoon(owner *models.User, task *models.Task) {
	if s.notifier == nil || task.DueDate == nil {
		return
	}

	now := s.now().In(task.DueDate.Location())
	due := *task.DueDate
	if now.Before(due) && due.Before(now.Add(DueSoonWindow)) {
		message := fmt.Sprintf("Task '%s' created and is due soon (tomorrow)!", task.Title)
		s.notifier.Enqueue(owner.Email, message)
	}
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
