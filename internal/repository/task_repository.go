package repository

import (
	"github.com/taskflow-dev/taskflow-api/internal/database"
	"github.com/taskflow-dev/taskflow-api/internal/models"
	"github.com/taskflow-dev/taskflow-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindVisible finds a non-deleted task owned by the given user
func (r *GormTaskRepository) FindVisible(id, ownerID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Scopes(database.OwnedBy(ownerID)).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindNotDeleted finds a non-deleted task regardless of owner
func (r *GormTaskRepository) FindNotDeleted(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Scopes(database.NotDeleted).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListVisible lists the owner's non-deleted tasks, optionally filtered by project
func (r *GormTaskRepository) ListVisible(ownerID uint64, projectID *uint64, page utils.PageParams) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Scopes(database.OwnedBy(ownerID))
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	err := query.
		Scopes(database.Paginate(page)).
		Order("tasks.id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Save persists changes to an existing task
func (r *GormTaskRepository) Save(task *models.Task) error {
	return r.db.Save(task).Error
}
