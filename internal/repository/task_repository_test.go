package repository

import (
	"context"
	"testing"

	"kanboard/internal/models"

	"github.com/stretchr/testify/require"
)

func TestTask_CreateDefaultsToFirstColumn(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	project := seedProject(t, db, "P")
	require.NoError(t, NewColumnRepository(db).CreateDefaultColumns(ctx, project.ID, "Backlog,Done"))

	repo := NewTaskRepository(db)
	id, err := repo.Create(ctx, &models.Task{ProjectID: project.ID, Title: "Write docs"})
	require.NoError(t, err)

	task, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	columns, err := NewColumnRepository(db).GetAll(ctx, project.ID)
	require.NoError(t, err)
	require.Equal(t, columns[0].ID, task.ColumnID)
	require.Equal(t, models.NoCategoryID, task.CategoryID)
	require.Equal(t, 1, task.Position)
	require.True(t, task.IsActive)
}

func TestTask_RejectsForeignReferences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	p1 := seedProject(t, db, "P1")
	p2 := seedProject(t, db, "P2")
	require.NoError(t, NewColumnRepository(db).CreateDefaultColumns(ctx, p1.ID, "A"))
	require.NoError(t, NewColumnRepository(db).CreateDefaultColumns(ctx, p2.ID, "B"))
	otherColumns, err := NewColumnRepository(db).GetAll(ctx, p2.ID)
	require.NoError(t, err)
	otherCategory, err := NewCategoryRepository(db).Create(ctx, &models.Category{ProjectID: p2.ID, Name: "Bug"})
	require.NoError(t, err)

	repo := NewTaskRepository(db)
	_, err = repo.Create(ctx, &models.Task{ProjectID: p1.ID, ColumnID: otherColumns[0].ID, Title: "t"})
	require.ErrorIs(t, err, ErrInvalidTask)
	_, err = repo.Create(ctx, &models.Task{ProjectID: p1.ID, CategoryID: otherCategory, Title: "t"})
	require.ErrorIs(t, err, ErrInvalidTask)
	_, err = repo.Create(ctx, &models.Task{ProjectID: p1.ID, Title: ""})
	require.ErrorIs(t, err, ErrInvalidTask)
}

func TestTask_SetCategory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	project := seedProject(t, db, "P")
	require.NoError(t, NewColumnRepository(db).CreateDefaultColumns(ctx, project.ID, "A"))
	bug, err := NewCategoryRepository(db).Create(ctx, &models.Category{ProjectID: project.ID, Name: "Bug"})
	require.NoError(t, err)

	repo := NewTaskRepository(db)
	id, err := repo.Create(ctx, &models.Task{ProjectID: project.ID, Title: "t"})
	require.NoError(t, err)

	require.NoError(t, repo.SetCategory(ctx, id, bug))
	task, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, bug, task.CategoryID)

	require.NoError(t, repo.SetCategory(ctx, id, models.NoCategoryID))
	tasks, err := repo.GetAll(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, models.NoCategoryID, tasks[0].CategoryID)

	require.ErrorIs(t, repo.SetCategory(ctx, id, bug+100), ErrInvalidTask)
}
