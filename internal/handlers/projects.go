package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/startrack/intake-backend/internal/middleware"
	"github.com/startrack/intake-backend/internal/models"
	"github.com/startrack/intake-backend/internal/services"
)

type ProjectHandler struct {
	projectService  *services.ProjectService
	documentService *services.DocumentService
}

func NewProjectHandler(projectService *services.ProjectService, documentService *services.DocumentService) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		documentService: documentService,
	}
}

// AllData lists every submission
func (h *ProjectHandler) AllData(c *gin.Context) {
	projects, err := h.projectService.AllProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// AllDataLatest lists the newest submission of each project
func (h *ProjectHandler) AllDataLatest(c *gin.Context) {
	projects, err := h.projectService.LatestProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// AllDataHistory lists the superseded submissions of one project
func (h *ProjectHandler) AllDataHistory(c *gin.Context) {
	projects, err := h.projectService.ProjectHistory(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Create stores a new submission on behalf of the user in the path
func (h *ProjectHandler) Create(c *gin.Context) {
	var req models.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingError(err)})
		return
	}

	created, err := h.projectService.CreateProject(c.Request.Context(), c.Param("email"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// Delete removes a submission and its rows
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.projectService.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nil)
}

// UpdateStatus sets the application status of a submission
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.UpdateStatus(c.Request.Context(), id, c.Param("applyValue"), middleware.CurrentEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project.ToDataResponse())
}

// Export streams a PDF summary of a submission
func (h *ProjectHandler) Export(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetAggregate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.documentService.RenderProjectSummary(&buf, project); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="project-%d.pdf"`, project.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ChildRows returns a handler listing one kind of child row of a project.
func ChildRows[T models.ChildRow](projectService *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		rows, err := services.ListChildRows[T](c.Request.Context(), projectService, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
