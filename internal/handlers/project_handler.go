package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"kanboard/internal/config"
	"kanboard/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProjectRequest is the payload of POST /api/projects
type ProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

func projectDefaults() repository.ProjectDefaults {
	cfg := config.Env()
	return repository.ProjectDefaults{
		Columns:    cfg.BoardColumns,
		Categories: cfg.ProjectCategories,
	}
}

// ListProjects handles GET /api/projects
func ListProjects(c *gin.Context) {
	projects, err := projectRepo().GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

// GetProject handles GET /api/projects/:id
func GetProject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	project, err := projectRepo().GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject handles POST /api/projects
// New projects get the configured default columns and categories.
func CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := projectRepo().Create(c.Request.Context(), req.Name, projectDefaults())
	if err != nil {
		respondError(c, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, project)
}

// RemoveProject handles DELETE /api/projects/:id
func RemoveProject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := projectRepo().Remove(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to remove project")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Project removed successfully",
		"id":      id,
	})
}

// ProjectIndex handles GET /projects
func ProjectIndex(c *gin.Context) {
	renderProjectIndex(c, http.StatusOK, nil, map[string]string{})
}

func renderProjectIndex(c *gin.Context, status int, errs []string, values map[string]string) {
	projects, err := projectRepo().GetAll(c.Request.Context())
	if err != nil {
		renderError(c, err, "Unable to load projects")
		return
	}
	render(c, status, "project/index", gin.H{
		"title":    "Projects",
		"projects": projects,
		"errors":   errs,
		"values":   values,
	})
}

// ProjectCreateForm handles POST /projects
func ProjectCreateForm(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))

	project, err := projectRepo().Create(c.Request.Context(), name, projectDefaults())
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			renderError(c, err, "Unable to create your project.")
			return
		}
		renderProjectIndex(c, statusFor(err), []string{err.Error()}, map[string]string{"name": name})
		return
	}

	redirectWithFlash(c, fmt.Sprintf("/project/%d/columns", project.ID), "Your project has been created successfully.")
}
