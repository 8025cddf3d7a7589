package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"

	"kanboard/internal/config"
	"kanboard/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCreateProject_AppliesDefaults(t *testing.T) {
	db := setupTestDB(t)
	cfg := config.Env()
	columns, categories := cfg.BoardColumns, cfg.ProjectCategories
	t.Cleanup(func() { cfg.BoardColumns, cfg.ProjectCategories = columns, categories })
	cfg.BoardColumns = "Todo, Doing ,Done"
	cfg.ProjectCategories = "Bug,Support"

	r := newTestRouter()
	r.POST("/api/projects", CreateProject)
	r.GET("/api/projects/:id", GetProject)
	r.GET("/api/projects", ListProjects)

	w := doJSON(r, http.MethodPost, "/api/projects", map[string]string{"name": "Website"})
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[models.Project](t, w)
	require.True(t, project.IsActive)

	board := boardColumns(t, project.ID)
	require.Len(t, board, 3)
	require.Equal(t, "Doing", board[1].Title)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Where("project_id = ?", project.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)

	w = doGet(r, fmt.Sprintf("/api/projects/%d", project.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Website", decode[models.Project](t, w).Name)

	w = doGet(r, "/api/projects")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decode[struct{ Count int }](t, w).Count)

	w = doJSON(r, http.MethodPost, "/api/projects", map[string]string{"name": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveProject_DeletesOwnedRows(t *testing.T) {
	db := setupTestDB(t)
	project := seedBoard(t, db, "Website")
	other := seedBoard(t, db, "Intranet")
	task := seedTask(t, db, project.ID, 0, 0, "Write docs")
	file, err := fileRepo().Create(context.Background(), task.ID, "notes.txt", []byte("hello"))
	require.NoError(t, err)

	r := newTestRouter()
	r.DELETE("/api/projects/:id", RemoveProject)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, model := range []any{&models.Task{}, &models.Column{}, &models.Category{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("project_id = ?", project.ID).Count(&count).Error)
		require.Zero(t, count)
	}
	_, err = os.Stat(fileRepo().AbsPath(file))
	require.True(t, os.IsNotExist(err))

	require.Len(t, boardColumns(t, other.ID), 2)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectPages(t *testing.T) {
	db := setupTestDB(t)
	seedBoard(t, db, "Website")

	r := newTestRouter()
	r.GET("/projects", ProjectIndex)
	r.POST("/projects", ProjectCreateForm)

	w := doGet(r, "/projects")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Website")
	require.Contains(t, w.Body.String(), "admin")

	w = doForm(r, "/projects", url.Values{"name": {""}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "name is required")

	w = doForm(r, "/projects", url.Values{"name": {"Intranet"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Contains(t, w.Header().Get("Location"), "/columns")
}
