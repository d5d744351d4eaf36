package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/service"
)

type createProjectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	ProjectURL   *string  `json:"project_url"`
	GithubURL    *string  `json:"github_url"`
	Image        *string  `json:"image"`
	Featured     bool     `json:"featured"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	Order        *int     `json:"order"`
}

type updateProjectRequest struct {
	Title        models.Field[string]   `json:"title"`
	Description  models.Field[string]   `json:"description"`
	Technologies models.Field[[]string] `json:"technologies"`
	ProjectURL   models.Field[string]   `json:"project_url"`
	GithubURL    models.Field[string]   `json:"github_url"`
	Image        models.Field[string]   `json:"image"`
	Featured     models.Field[bool]     `json:"featured"`
	StartDate    models.Field[string]   `json:"start_date"`
	EndDate      models.Field[string]   `json:"end_date"`
	Order        models.Field[int]      `json:"order"`
}

func (h HandlerSet) ListProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": newProjectViews(projects)})
}

func (h HandlerSet) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	project, err := h.projects.Create(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), service.ProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Technologies: req.Technologies,
		ProjectURL:   req.ProjectURL,
		GithubURL:    req.GithubURL,
		Image:        req.Image,
		Featured:     req.Featured,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Order:        req.Order,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": newProjectView(project)})
}

func (h HandlerSet) UpdateProject(c *gin.Context) {
	var req updateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	project, err := h.projects.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("projectId"), models.ProjectPatch{
		Title:        req.Title,
		Description:  req.Description,
		Technologies: req.Technologies,
		ProjectURL:   req.ProjectURL,
		GithubURL:    req.GithubURL,
		Image:        req.Image,
		Featured:     req.Featured,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Order:        req.Order,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": newProjectView(project)})
}

func (h HandlerSet) DeleteProject(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("projectId")); err != nil {
		h.respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Project deleted successfully")
}
