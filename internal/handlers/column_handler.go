package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"kanboard/internal/models"
	"kanboard/internal/realtime"
	"kanboard/internal/repository"

	"github.com/gin-gonic/gin"
)

// ColumnRequest is the payload for creating or updating a column
type ColumnRequest struct {
	Title       string `json:"title" binding:"required"`
	TaskLimit   int    `json:"task_limit"`
	Description string `json:"description"`
}

// PositionRequest sets the 1-based position of a column
type PositionRequest struct {
	Position int `json:"position" binding:"required"`
}

// ListColumns handles GET /api/projects/:id/columns
func ListColumns(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := projectRepo().GetByID(c.Request.Context(), projectID); err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}

	repo := columnRepo()
	columns, err := repo.GetAll(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err, "Failed to fetch columns")
		return
	}
	counts, err := repo.CountTasks(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err, "Failed to count tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": columns,
		"counts":  counts,
		"count":   len(columns),
	})
}

// CreateColumn handles POST /api/projects/:id/columns
func CreateColumn(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := projectRepo().GetByID(c.Request.Context(), projectID); err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}

	column := models.Column{
		ProjectID:   projectID,
		Title:       req.Title,
		TaskLimit:   req.TaskLimit,
		Description: req.Description,
	}
	if _, err := columnRepo().Create(c.Request.Context(), &column); err != nil {
		respondError(c, err, "Failed to create column")
		return
	}

	realtime.GetHub().Publish(projectID, realtime.ColumnCreated, column.ID)
	c.JSON(http.StatusCreated, column)
}

// UpdateColumn handles PUT /api/columns/:id
func UpdateColumn(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	repo := columnRepo()
	column, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch column")
		return
	}

	column.Title = req.Title
	column.TaskLimit = req.TaskLimit
	column.Description = req.Description
	if err := repo.Update(c.Request.Context(), column); err != nil {
		respondError(c, err, "Failed to update column")
		return
	}

	realtime.GetHub().Publish(column.ProjectID, realtime.ColumnUpdated, column.ID)
	c.JSON(http.StatusOK, column)
}

// RemoveColumn handles DELETE /api/columns/:id
func RemoveColumn(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	repo := columnRepo()
	column, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch column")
		return
	}
	if err := repo.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err, "Unable to remove this column")
		return
	}

	realtime.GetHub().Publish(column.ProjectID, realtime.ColumnRemoved, id)
	c.JSON(http.StatusOK, gin.H{
		"message": "Column removed successfully",
		"id":      id,
	})
}

// MoveColumn handles POST /api/columns/:id/move/:direction
func MoveColumn(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	repo := columnRepo()
	if err := repo.Move(c.Request.Context(), id, c.Param("direction")); err != nil {
		respondError(c, err, "Unable to move this column")
		return
	}

	column, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch column")
		return
	}

	realtime.GetHub().Publish(column.ProjectID, realtime.ColumnMoved, id)
	c.JSON(http.StatusOK, column)
}

// SetColumnPosition handles PUT /api/columns/:id/position
func SetColumnPosition(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	repo := columnRepo()
	column, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch column")
		return
	}
	if err := repo.ChangePosition(c.Request.Context(), column.ProjectID, id, req.Position); err != nil {
		respondError(c, err, "Unable to move this column")
		return
	}

	column.Position = req.Position
	realtime.GetHub().Publish(column.ProjectID, realtime.ColumnMoved, id)
	c.JSON(http.StatusOK, column)
}

// ColumnIndex handles GET /project/:id/columns, the board column listing.
func ColumnIndex(c *gin.Context) {
	projectID, ok := pageID(c, "id")
	if !ok {
		return
	}
	renderColumnIndex(c, http.StatusOK, projectID, nil, map[string]string{})
}

func renderColumnIndex(c *gin.Context, status, projectID int, errs []string, values map[string]string) {
	project, err := projectRepo().GetByID(c.Request.Context(), projectID)
	if err != nil {
		renderError(c, err, "Unable to load project")
		return
	}

	repo := columnRepo()
	columns, err := repo.GetAll(c.Request.Context(), projectID)
	if err != nil {
		renderError(c, err, "Unable to load columns")
		return
	}
	counts, err := repo.CountTasks(c.Request.Context(), projectID)
	if err != nil {
		renderError(c, err, "Unable to count tasks")
		return
	}

	render(c, status, "column/index", gin.H{
		"title":   fmt.Sprintf("%s - Columns", project.Name),
		"project": project,
		"columns": columns,
		"counts":  counts,
		"errors":  errs,
		"values":  values,
	})
}

// columnForm reads the column fields of a submitted form.
func columnForm(c *gin.Context) (models.Column, map[string]string, error) {
	values := map[string]string{
		"title":       strings.TrimSpace(c.PostForm("title")),
		"task_limit":  strings.TrimSpace(c.PostForm("task_limit")),
		"description": c.PostForm("description"),
	}

	column := models.Column{Title: values["title"], Description: values["description"]}
	if values["task_limit"] != "" {
		limit, err := strconv.Atoi(values["task_limit"])
		if err != nil {
			return column, values, fmt.Errorf("%w: task limit must be a number", repository.ErrInvalidColumn)
		}
		column.TaskLimit = limit
	}
	return column, values, nil
}

// ColumnCreateForm handles POST /project/:id/columns
func ColumnCreateForm(c *gin.Context) {
	projectID, ok := pageID(c, "id")
	if !ok {
		return
	}
	if _, err := projectRepo().GetByID(c.Request.Context(), projectID); err != nil {
		renderError(c, err, "Unable to load project")
		return
	}

	column, values, err := columnForm(c)
	if err == nil {
		column.ProjectID = projectID
		_, err = columnRepo().Create(c.Request.Context(), &column)
	}
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			renderError(c, err, "Unable to create your column.")
			return
		}
		renderColumnIndex(c, statusFor(err), projectID, []string{err.Error()}, values)
		return
	}

	realtime.GetHub().Publish(projectID, realtime.ColumnCreated, column.ID)
	redirectWithFlash(c, fmt.Sprintf("/project/%d/columns", projectID), "Board updated successfully.")
}

// ColumnEdit handles GET /column/:id/edit
func ColumnEdit(c *gin.Context) {
	id, ok := pageID(c, "id")
	if !ok {
		return
	}
	column, err := columnRepo().GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load column")
		return
	}
	render(c, http.StatusOK, "column/edit", gin.H{"title": "Edit column", "column": column})
}

// ColumnUpdateForm handles POST /column/:id/edit
func ColumnUpdateForm(c *gin.Context) {
	id, ok := pageID(c, "id")
	if !ok {
		return
	}

	repo := columnRepo()
	current, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load column")
		return
	}

	column, _, err := columnForm(c)
	column.ID = current.ID
	column.ProjectID = current.ProjectID
	column.Position = current.Position
	if err == nil {
		err = repo.Update(c.Request.Context(), &column)
	}
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			renderError(c, err, "Unable to update this column.")
			return
		}
		render(c, statusFor(err), "column/edit", gin.H{
			"title":  "Edit column",
			"column": column,
			"errors": []string{err.Error()},
		})
		return
	}

	realtime.GetHub().Publish(column.ProjectID, realtime.ColumnUpdated, column.ID)
	redirectWithFlash(c, fmt.Sprintf("/project/%d/columns", column.ProjectID), "Board updated successfully.")
}

// ColumnRemoveConfirm handles GET /column/:id/remove
func ColumnRemoveConfirm(c *gin.Context) {
	id, ok := pageID(c, "id")
	if !ok {
		return
	}
	column, err := columnRepo().GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load column")
		return
	}
	render(c, http.StatusOK, "column/remove", gin.H{"title": "Remove a column", "column": column})
}

// ColumnRemoveForm handles POST /column/:id/remove
func ColumnRemoveForm(c *gin.Context) {
	id, ok := pageID(c, "id")
	if !ok {
		return
	}

	repo := columnRepo()
	column, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load column")
		return
	}

	location := fmt.Sprintf("/project/%d/columns", column.ProjectID)
	if err := repo.Remove(c.Request.Context(), id); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			renderError(c, err, "Unable to remove this column.")
			return
		}
		redirectWithFlash(c, location, "Unable to remove this column.")
		return
	}

	realtime.GetHub().Publish(column.ProjectID, realtime.ColumnRemoved, id)
	redirectWithFlash(c, location, "Column removed successfully.")
}

// ColumnMoveForm handles POST /column/:id/move/:direction
func ColumnMoveForm(c *gin.Context) {
	id, ok := pageID(c, "id")
	if !ok {
		return
	}

	repo := columnRepo()
	column, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load column")
		return
	}

	location := fmt.Sprintf("/project/%d/columns", column.ProjectID)
	if err := repo.Move(c.Request.Context(), id, c.Param("direction")); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			renderError(c, err, "Unable to move this column.")
			return
		}
		redirectWithFlash(c, location, "Unable to move this column.")
		return
	}

	realtime.GetHub().Publish(column.ProjectID, realtime.ColumnMoved, id)
	redirectWithFlash(c, location, "Board updated successfully.")
}
