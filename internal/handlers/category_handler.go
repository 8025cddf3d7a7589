package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"kanboard/internal/models"
	"kanboard/internal/realtime"

	"github.com/gin-gonic/gin"
)

// CategoryRequest is the payload for creating or renaming a category
type CategoryRequest struct {
	Name string `json:"name" form:"name" binding:"required"`
}

/*
ListCategories handles GET /api/projects/:id/categories
Returns the project's categories as drop-down options. Query flags
prepend_none and prepend_all add the "No category" (0) and
"All categories" (-1) entries.
*/
func ListCategories(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := projectRepo().GetByID(c.Request.Context(), projectID); err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}

	options, err := categoryRepo().GetList(c.Request.Context(), projectID,
		c.Query("prepend_none") == "true", c.Query("prepend_all") == "true")
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": options,
		"count":      len(options),
	})
}

// GetCategory handles GET /api/categories/:id
func GetCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	category, err := categoryRepo().GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /api/projects/:id/categories
func CreateCategory(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := projectRepo().GetByID(c.Request.Context(), projectID); err != nil {
		respondError(c, err, "Failed to fetch project")
		return
	}

	category := models.Category{ProjectID: projectID, Name: req.Name}
	if _, err := categoryRepo().Create(c.Request.Context(), &category); err != nil {
		respondError(c, err, "Failed to create category")
		return
	}

	realtime.GetHub().Publish(projectID, realtime.CategoryCreated, category.ID)
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/:id
// The category keeps its project; only the name is replaced.
func UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	repo := categoryRepo()
	category, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch category")
		return
	}

	category.Name = req.Name
	if err := repo.Update(c.Request.Context(), category); err != nil {
		respondError(c, err, "Failed to update category")
		return
	}

	realtime.GetHub().Publish(category.ProjectID, realtime.CategoryUpdated, category.ID)
	c.JSON(http.StatusOK, category)
}

// RemoveCategory handles DELETE /api/categories/:id
// Tasks of the category are moved to "no category" before the row is deleted.
func RemoveCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	repo := categoryRepo()
	category, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch category")
		return
	}

	if err := repo.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err, "Unable to remove this category")
		return
	}

	realtime.GetHub().Publish(category.ProjectID, realtime.CategoryRemoved, id)
	c.JSON(http.StatusOK, gin.H{
		"message": "Category removed successfully",
		"id":      id,
	})
}

// DuplicateRequest names the project whose categories are copied
type DuplicateRequest struct {
	SourceProjectID int `json:"source_project_id" binding:"required,gt=0"`
}

// DuplicateCategories handles POST /api/projects/:id/categories/duplicate
// Names the destination already has are skipped.
func DuplicateCategories(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req DuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projects := projectRepo()
	for _, id := range []int{req.SourceProjectID, projectID} {
		if _, err := projects.GetByID(c.Request.Context(), id); err != nil {
			respondError(c, err, "Failed to fetch project")
			return
		}
	}

	repo := categoryRepo()
	created, err := repo.Duplicate(c.Request.Context(), req.SourceProjectID, projectID)
	if err != nil {
		respondError(c, err, "Failed to duplicate categories")
		return
	}
	categories, err := repo.GetAll(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}

	for _, id := range created {
		realtime.GetHub().Publish(projectID, realtime.CategoryCreated, id)
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
		"created":    len(created),
	})
}

// CategoryIndex handles GET /project/:id/categories
func CategoryIndex(c *gin.Context) {
	projectID, ok := pageID(c, "id")
	if !ok {
		return
	}
	renderCategoryIndex(c, http.StatusOK, projectID, nil, map[string]string{})
}

func renderCategoryIndex(c *gin.Context, status, projectID int, errs []string, values map[string]string) {
	project, err := projectRepo().GetByID(c.Request.Context(), projectID)
	if err != nil {
		renderError(c, err, "Unable to load project")
		return
	}
	categories, err := categoryRepo().GetAll(c.Request.Context(), projectID)
	if err != nil {
		renderError(c, err, "Unable to load categories")
		return
	}
	render(c, status, "category/index", gin.H{
		"title":      fmt.Sprintf("%s - Categories", project.Name),
		"project":    project,
		"categories": categories,
		"errors":     errs,
		"values":     values,
	})
}

// CategoryCreateForm handles POST /project/:id/categories
func CategoryCreateForm(c *gin.Context) {
	projectID, ok := pageID(c, "id")
	if !ok {
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	values := map[string]string{"name": name}
	if _, err := projectRepo().GetByID(c.Request.Context(), projectID); err != nil {
		renderError(c, err, "Unable to load project")
		return
	}

	category := models.Category{ProjectID: projectID, Name: name}
	if _, err := categoryRepo().Create(c.Request.Context(), &category); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			renderError(c, err, "Unable to create your category.")
			return
		}
		renderCategoryIndex(c, statusFor(err), projectID, []string{err.Error()}, values)
		return
	}

	realtime.GetHub().Publish(projectID, realtime.CategoryCreated, category.ID)
	redirectWithFlash(c, fmt.Sprintf("/project/%d/categories", projectID), "Your category has been created successfully.")
}

// CategoryEdit handles GET /category/:id/edit
func CategoryEdit(c *gin.Context) {
	id, ok := pageID(c, "id")
	if !ok {
		return
	}
	category, err := categoryRepo().GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load category")
		return
	}
	render(c, http.StatusOK, "category/edit", gin.H{"title": "Category modification", "category": category})
}

// CategoryUpdateForm handles POST /category/:id/edit
func CategoryUpdateForm(c *gin.Context) {
	id, ok := pageID(c, "id")
	if !ok {
		return
	}

	repo := categoryRepo()
	category, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load category")
		return
	}

	category.Name = c.PostForm("name")
	if err := repo.Update(c.Request.Context(), category); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			renderError(c, err, "Unable to update your category.")
			return
		}
		render(c, statusFor(err), "category/edit", gin.H{
			"title":    "Category modification",
			"category": category,
			"errors":   []string{err.Error()},
		})
		return
	}

	realtime.GetHub().Publish(category.ProjectID, realtime.CategoryUpdated, category.ID)
	redirectWithFlash(c, fmt.Sprintf("/project/%d/categories", category.ProjectID), "Your category has been updated successfully.")
}

// CategoryRemoveConfirm handles GET /category/:id/remove
func CategoryRemoveConfirm(c *gin.Context) {
	id, ok := pageID(c, "id")
	if !ok {
		return
	}
	category, err := categoryRepo().GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load category")
		return
	}
	render(c, http.StatusOK, "category/remove", gin.H{"title": "Remove a category", "category": category})
}

// CategoryRemoveForm handles POST /category/:id/remove
func CategoryRemoveForm(c *gin.Context) {
	id, ok := pageID(c, "id")
	if !ok {
		return
	}

	repo := categoryRepo()
	category, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load category")
		return
	}

	location := fmt.Sprintf("/project/%d/categories", category.ProjectID)
	if err := repo.Remove(c.Request.Context(), id); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			renderError(c, err, "Unable to remove this category.")
			return
		}
		redirectWithFlash(c, location, "Unable to remove this category.")
		return
	}

	realtime.GetHub().Publish(category.ProjectID, realtime.CategoryRemoved, id)
	redirectWithFlash(c, location, "Category removed successfully.")
}
