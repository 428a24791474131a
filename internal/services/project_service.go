package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/taskflow-dev/taskflow-api/internal/constants"
	"github.com/taskflow-dev/taskflow-api/internal/models"
	"github.com/taskflow-dev/taskflow-api/internal/repository"
	"github.com/taskflow-dev/taskflow-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNameEmpty       = errors.New("name cannot be empty")
	ErrNameTooLong     = errors.New("name is too long")
)

// ProjectService handles project business logic
type ProjectService struct {
	projects repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput represents input for updating a project. Nil fields
// are left untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// List returns the user's non-deleted projects
func (s *ProjectService) List(ownerID uint64, page utils.PageParams) ([]models.Project, error) {
	projects, err := s.projects.ListVisible(ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Create creates a new project owned by the given user
func (s *ProjectService) Create(ownerID uint64, input CreateProjectInput) (*models.Project, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     ownerID,
	}

	if err := s.projects.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// Update applies a partial update to a project owned by the given user
func (s *ProjectService) Update(id, ownerID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projects.FindVisible(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projects.Save(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete soft-deletes a project owned by the given user. Tasks linked to
// the project keep their reference; there is no cascade.
func (s *ProjectService) Delete(id, ownerID uint64) error {
	project, err := s.projects.FindVisible(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	project.IsDeleted = true
	if err := s.projects.Save(project); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > constants.MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
