package dto

import (
	"time"

	"github.com/taskflow-dev/taskflow-api/internal/models"
)

// CreateProjectRequest is the payload for creating a project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProjectResponse converts a Project model to ProjectResponse
func ToProjectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectListResponse converts a slice of projects
func ToProjectListResponse(projects []models.Project) []ProjectResponse {
	items := make([]ProjectResponse, len(projects))
	for i, project := range projects {
		items[i] = ToProjectResponse(project)
	}
	return items
}
