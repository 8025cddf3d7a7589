package handlers

import (
	"net/http"

	"kanboard/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task.
// A zero column_id puts the task in the first column; a zero category_id
// leaves it uncategorized.
type CreateTaskRequest struct {
	Title      string `json:"title" binding:"required"`
	ColumnID   int    `json:"column_id"`
	CategoryID int    `json:"category_id"`
}

// SetCategoryRequest assigns a task's category
type SetCategoryRequest struct {
	CategoryID *int `json:"category_id" binding:"required"`
}

// GetProjectTasks handles GET /api/projects/:id/tasks
func GetProjectTasks(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	tasks, err := taskRepo().GetAll(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err, "Failed to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// CreateTask handles POST /api/projects/:id/tasks
func CreateTask(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := projectRepo().GetByID(c.Request.Context(), projectID); err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}

	task := models.Task{
		ProjectID:  projectID,
		ColumnID:   req.ColumnID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
	}
	if _, err := taskRepo().Create(c.Request.Context(), &task); err != nil {
		respondError(c, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// SetTaskCategory handles PUT /api/tasks/:id/category
func SetTaskCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SetCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	repo := taskRepo()
	if err := repo.SetCategory(c.Request.Context(), id, *req.CategoryID); err != nil {
		respondError(c, err, "Failed to update task")
		return
	}
	task, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}
