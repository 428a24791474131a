package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow-api/internal/dto"
	apierrors "github.com/taskflow-dev/taskflow-api/internal/errors"
	"github.com/taskflow-dev/taskflow-api/internal/middleware"
	"github.com/taskflow-dev/taskflow-api/internal/services"
	"github.com/taskflow-dev/taskflow-api/internal/utils"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns the current user's projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	page := utils.GetPageParams(c)

	projects, err := h.projectService.List(user.ID, page)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects))
}

// CreateProject creates a project owned by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Create(user.ID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectResponse(*project))
}

// UpdateProject applies a partial update to a project. The raw body is
// parsed as a map so an explicit null can be told apart from an absent
// field.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := buildUpdateProjectInput(c, raw)
	if !ok {
		return
	}

	project, err := h.projectService.Update(projectID, user.ID, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(*project))
}

func buildUpdateProjectInput(c *gin.Context, raw map[string]any) (services.UpdateProjectInput, bool) {
	var input services.UpdateProjectInput

	// name is required on the model, so a null name falls through to the
	// empty-name validation
	if value, present := raw["name"]; present {
		if value == nil {
			empty := ""
			input.Name = &empty
		} else {
			s, ok := value.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid name")
				return input, false
			}
			input.Name = &s
		}
	}
	if value, present := raw["description"]; present {
		if value == nil {
			empty := ""
			input.Description = &empty
		} else {
			s, ok := value.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid description")
				return input, false
			}
			input.Description = &s
		}
	}

	return input, true
}

// DeleteProject soft-deletes a project.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(projectID, user.ID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MsgResponse{Msg: "Project deleted successfully"})
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrNameEmpty),
		errors.Is(err, services.ErrNameTooLong):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
