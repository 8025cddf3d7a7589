package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kanboard/internal/models"

	"gorm.io/gorm"
)

var ErrInvalidTask = errors.New("invalid task")

// TaskRepository handles the task rows that reference columns and categories.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task after checking that its column and category belong
// to the same project. A zero CategoryID means "no category".
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) (int, error) {
	task.Title = strings.TrimSpace(task.Title)
	if task.ProjectID <= 0 || task.Title == "" {
		return 0, fmt.Errorf("%w: project and title are required", ErrInvalidTask)
	}

	db := r.db.WithContext(ctx)

	if task.ColumnID == 0 {
		var first models.Column
		if err := db.Where("project_id = ?", task.ProjectID).Order("position ASC").First(&first).Error; err != nil {
			return 0, fmt.Errorf("%w: project has no column", ErrInvalidTask)
		}
		task.ColumnID = first.ID
	} else if err := r.belongsTo(ctx, &models.Column{}, task.ColumnID, task.ProjectID); err != nil {
		return 0, err
	}

	if task.CategoryID != models.NoCategoryID {
		if err := r.belongsTo(ctx, &models.Category{}, task.CategoryID, task.ProjectID); err != nil {
			return 0, err
		}
	}

	var last int
	if err := db.Model(&models.Task{}).
		Where("column_id = ?", task.ColumnID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("last task position: %w", err)
	}

	task.ID = 0
	task.IsActive = true
	task.Position = last + 1
	if err := db.Create(task).Error; err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	return task.ID, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// GetAll returns the tasks of a project ordered by column then position.
func (r *TaskRepository) GetAll(ctx context.Context, projectID int) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("column_id ASC, position ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// SetCategory assigns a category of the task's project, or NoCategoryID.
func (r *TaskRepository) SetCategory(ctx context.Context, taskID, categoryID int) error {
	task, err := r.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if categoryID != models.NoCategoryID {
		if err := r.belongsTo(ctx, &models.Category{}, categoryID, task.ProjectID); err != nil {
			return err
		}
	}
	if err := r.db.WithContext(ctx).Model(task).Update("category_id", categoryID).Error; err != nil {
		return fmt.Errorf("set task category: %w", err)
	}
	return nil
}

func (r *TaskRepository) belongsTo(ctx context.Context, model any, id, projectID int) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).
		Where("id = ? AND project_id = ?", id, projectID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check task reference: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: reference %d is not part of project %d", ErrInvalidTask, id, projectID)
	}
	return nil
}
