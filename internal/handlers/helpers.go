package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"kanboard/internal/cache"
	"kanboard/internal/config"
	"kanboard/internal/database"
	"kanboard/internal/models"
	"kanboard/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// categoryCache is shared by every request so a write in one invalidates the list seen by the others.
var categoryCache = cache.NewTTLCache[int, []models.Category]()

func categoryRepo() *repository.CategoryRepository {
	return repository.NewCategoryRepository(database.GetDB()).WithCache(categoryCache, config.Env().CategoryCacheTTL)
}

func fileRepo() *repository.FileRepository {
	return repository.NewFileRepository(database.GetDB(), config.Env().FilesDir)
}

func columnRepo() *repository.ColumnRepository {
	return repository.NewColumnRepository(database.GetDB())
}

func taskRepo() *repository.TaskRepository {
	return repository.NewTaskRepository(database.GetDB())
}

func projectRepo() *repository.ProjectRepository {
	return repository.NewProjectRepository(database.GetDB(), categoryRepo(), fileRepo())
}

// paramID reads a positive integer path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrCategoryExists),
		errors.Is(err, repository.ErrColumnNotEmpty):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInvalidCategory),
		errors.Is(err, repository.ErrInvalidColumn),
		errors.Is(err, repository.ErrInvalidPosition),
		errors.Is(err, repository.ErrUnknownDirection),
		errors.Is(err, repository.ErrInvalidTask),
		errors.Is(err, repository.ErrInvalidFile),
		errors.Is(err, repository.ErrInvalidProject):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal errors are logged and
// replaced by fallback so storage details do not leak to clients.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusNotFound:
		msg = "Not found"
	case http.StatusInternalServerError:
		slog.Error(fallback, "path", c.FullPath(), "error", err)
		msg = fallback
	}
	c.JSON(status, gin.H{"error": msg})
}

// render executes an HTML page with the fields every layout expects.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["values"]; !ok {
		data["values"] = map[string]string{}
	}
	data["username"] = c.GetString("username")
	if flash, err := c.Cookie(flashCookie); err == nil && flash != "" {
		data["flash"] = flash
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}
	c.HTML(status, name, data)
}

// renderError shows the error page for err.
func renderError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusNotFound:
		msg = "Page not found"
	case http.StatusInternalServerError:
		slog.Error(fallback, "path", c.FullPath(), "error", err)
		msg = fallback
	}
	render(c, status, "error", gin.H{"title": "Error", "error": msg})
}

const flashCookie = "kb_flash"

// redirectWithFlash stores a one-shot message shown by the next rendered page.
func redirectWithFlash(c *gin.Context, location, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, message, 60, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, location)
}

// pageID reads a positive integer path parameter for HTML routes.
func pageID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		renderError(c, gorm.ErrRecordNotFound, "")
		return 0, false
	}
	return id, true
}
