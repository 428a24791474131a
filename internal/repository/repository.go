package repository

import (
	"github.com/taskflow-dev/taskflow-api/internal/models"
	"github.com/taskflow-dev/taskflow-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// ProjectRepository defines the interface for project data access.
// "Visible" lookups are scoped to the owner and exclude soft-deleted rows.
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindVisible finds a non-deleted project owned by the given user
	FindVisible(id, ownerID uint64) (*models.Project, error)

	// FindByIDAndOwner finds a project by id and owner without the
	// soft-delete filter. Used for task→project linkage validation.
	FindByIDAndOwner(id, ownerID uint64) (*models.Project, error)

	// ListVisible lists the owner's non-deleted projects
	ListVisible(ownerID uint64, page utils.PageParams) ([]models.Project, error)

	// Save persists changes to an existing project
	Save(project *models.Project) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindVisible finds a non-deleted task owned by the given user
	FindVisible(id, ownerID uint64) (*models.Task, error)

	// FindNotDeleted finds a non-deleted task regardless of owner.
	// The caller is responsible for the ownership check.
	FindNotDeleted(id uint64) (*models.Task, error)

	// ListVisible lists the owner's non-deleted tasks, optionally
	// filtered by project
	ListVisible(ownerID uint64, projectID *uint64, page utils.PageParams) ([]models.Task, error)

	// Save persists changes to an existing task
	Save(task *models.Task) error
}
