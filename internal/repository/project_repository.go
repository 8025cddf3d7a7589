package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"kanboard/internal/models"

	"gorm.io/gorm"
)

var ErrInvalidProject = errors.New("invalid project")

// ProjectDefaults are the comma-separated column titles and category names
// given to every new project.
type ProjectDefaults struct {
	Columns    string
	Categories string
}

// ProjectRepository creates and removes projects together with the rows they own.
type ProjectRepository struct {
	db         *gorm.DB
	categories *CategoryRepository
	files      *FileRepository
}

// NewProjectRepository builds a repository. categories carries the shared
// category cache; files, when set, is used to delete attachment bytes on Remove.
func NewProjectRepository(db *gorm.DB, categories *CategoryRepository, files *FileRepository) *ProjectRepository {
	if categories == nil {
		categories = NewCategoryRepository(db)
	}
	return &ProjectRepository{db: db, categories: categories, files: files}
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) GetAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Create inserts a project with its default columns and categories in one transaction.
func (r *ProjectRepository) Create(ctx context.Context, name string, defaults ProjectDefaults) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProject)
	}

	project := models.Project{Name: name, IsActive: true}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		if err := NewColumnRepository(tx).CreateDefaultColumns(ctx, project.ID, defaults.Columns); err != nil {
			return err
		}
		return r.categories.withTx(tx).CreateDefaultCategories(ctx, project.ID, defaults.Categories)
	})
	if err != nil {
		return nil, err
	}

	r.categories.invalidate(project.ID)
	slog.Info("project created", "project_id", project.ID, "name", project.Name)
	return &project, nil
}

// Remove deletes a project with its categories, columns, tasks and files.
func (r *ProjectRepository) Remove(ctx context.Context, id int) error {
	var paths []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Where("id = ?", id).First(&project).Error; err != nil {
			return err
		}

		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Model(&models.File{}).Where("task_id IN (?)", taskIDs).Pluck("path", &paths).Error; err != nil {
			return fmt.Errorf("list project files: %w", err)
		}
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.File{}).Error; err != nil {
			return fmt.Errorf("delete project files: %w", err)
		}

		for _, model := range []any{&models.Task{}, &models.Column{}, &models.Category{}} {
			if err := tx.Where("project_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete project rows: %w", err)
			}
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return err
	}

	r.categories.invalidate(id)
	if r.files != nil {
		for _, p := range paths {
			if err := r.files.RemoveContent(p); err != nil {
				slog.Warn("leftover file content", "project_id", id, "path", p, "error", err)
			}
		}
	}
	slog.Info("project removed", "project_id", id)
	return nil
}
