package repository

import (
	"github.com/taskflow-dev/taskflow-api/internal/database"
	"github.com/taskflow-dev/taskflow-api/internal/models"
	"github.com/taskflow-dev/taskflow-api/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindVisible finds a non-deleted project owned by the given user
func (r *GormProjectRepository) FindVisible(id, ownerID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Scopes(database.OwnedBy(ownerID)).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDAndOwner finds a project by id and owner without the soft-delete filter
func (r *GormProjectRepository) FindByIDAndOwner(id, ownerID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("owner_id = ?", ownerID).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListVisible lists the owner's non-deleted projects
func (r *GormProjectRepository) ListVisible(ownerID uint64, page utils.PageParams) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Scopes(database.OwnedBy(ownerID), database.Paginate(page)).
		Order("projects.id").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Save persists changes to an existing project
func (r *GormProjectRepository) Save(project *models.Project) error {
	return r.db.Save(project).Error
}
