package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kanboard/internal/metrics"
	"kanboard/internal/models"

	"gorm.io/gorm"
)

var (
	ErrColumnNotEmpty   = errors.New("column still contains tasks")
	ErrInvalidColumn    = errors.New("invalid column")
	ErrInvalidPosition  = errors.New("invalid column position")
	ErrUnknownDirection = errors.New("direction must be up or down")
)

// ColumnRepository manages the ordered columns of a board. Positions of a
// project's columns are always 1..n without gaps.
type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) GetByID(ctx context.Context, id int) (*models.Column, error) {
	var column models.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// GetAll returns the columns of a project ordered by position.
func (r *ColumnRepository) GetAll(ctx context.Context, projectID int) ([]models.Column, error) {
	var columns []models.Column
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&columns).Error; err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	return columns, nil
}

func (r *ColumnRepository) lastPosition(ctx context.Context, projectID int) (int, error) {
	var last int
	err := r.db.WithContext(ctx).Model(&models.Column{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("last column position: %w", err)
	}
	return last, nil
}

// Create appends a column at the end of the board and returns its id.
func (r *ColumnRepository) Create(ctx context.Context, column *models.Column) (int, error) {
	column.Title = strings.TrimSpace(column.Title)
	if err := validateColumn(column); err != nil {
		return 0, err
	}

	last, err := r.lastPosition(ctx, column.ProjectID)
	if err != nil {
		return 0, err
	}

	column.ID = 0
	column.Position = last + 1
	if err := r.db.WithContext(ctx).Create(column).Error; err != nil {
		return 0, fmt.Errorf("create column: %w", err)
	}

	metrics.ColumnOperations.WithLabelValues("create").Inc()
	return column.ID, nil
}

// CreateDefaultColumns appends one column per entry of a comma-separated list.
func (r *ColumnRepository) CreateDefaultColumns(ctx context.Context, projectID int, titles string) error {
	for _, raw := range strings.Split(titles, ",") {
		title := strings.TrimSpace(raw)
		if title == "" {
			continue
		}
		if _, err := r.Create(ctx, &models.Column{ProjectID: projectID, Title: title}); err != nil {
			return err
		}
	}
	return nil
}

// Update replaces title, task limit and description. Position is changed with ChangePosition.
func (r *ColumnRepository) Update(ctx context.Context, column *models.Column) error {
	column.Title = strings.TrimSpace(column.Title)
	if column.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrInvalidColumn)
	}
	if column.TaskLimit < 0 {
		return fmt.Errorf("%w: task limit must be positive", ErrInvalidColumn)
	}
	if column.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidColumn)
	}

	result := r.db.WithContext(ctx).Model(&models.Column{}).
		Where("id = ?", column.ID).
		Updates(map[string]any{
			"title":       column.Title,
			"task_limit":  column.TaskLimit,
			"description": column.Description,
		})
	if result.Error != nil {
		return fmt.Errorf("update column: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	metrics.ColumnOperations.WithLabelValues("update").Inc()
	return nil
}

// Remove deletes an empty column and closes the gap in positions.
func (r *ColumnRepository) Remove(ctx context.Context, id int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column models.Column
		if err := tx.Where("id = ?", id).First(&column).Error; err != nil {
			return err
		}

		var tasks int64
		if err := tx.Model(&models.Task{}).Where("column_id = ?", id).Count(&tasks).Error; err != nil {
			return fmt.Errorf("count column tasks: %w", err)
		}
		if tasks > 0 {
			return ErrColumnNotEmpty
		}

		if err := tx.Delete(&models.Column{}, id).Error; err != nil {
			return fmt.Errorf("delete column: %w", err)
		}

		return tx.Model(&models.Column{}).
			Where("project_id = ? AND position > ?", column.ProjectID, column.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		return err
	}

	metrics.ColumnOperations.WithLabelValues("remove").Inc()
	return nil
}

// ChangePosition moves a column to position (1-based) and renumbers the others.
func (r *ColumnRepository) ChangePosition(ctx context.Context, projectID, columnID, position int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var columns []models.Column
		if err := tx.Where("project_id = ?", projectID).Order("position ASC").Find(&columns).Error; err != nil {
			return fmt.Errorf("list columns: %w", err)
		}
		if position < 1 || position > len(columns) {
			return ErrInvalidPosition
		}

		index := -1
		for i, c := range columns {
			if c.ID == columnID {
				index = i
				break
			}
		}
		if index < 0 {
			return gorm.ErrRecordNotFound
		}

		moved := columns[index]
		ordered := append(columns[:index:index], columns[index+1:]...)
		ordered = append(ordered[:position-1], append([]models.Column{moved}, ordered[position-1:]...)...)

		for i, c := range ordered {
			if c.Position == i+1 {
				continue
			}
			if err := tx.Model(&models.Column{}).Where("id = ?", c.ID).Update("position", i+1).Error; err != nil {
				return fmt.Errorf("update column position: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.ColumnOperations.WithLabelValues("move").Inc()
	return nil
}

// Move shifts a column one step "up" (towards position 1) or "down".
// Moving past either end is a no-op.
func (r *ColumnRepository) Move(ctx context.Context, columnID int, direction string) error {
	column, err := r.GetByID(ctx, columnID)
	if err != nil {
		return err
	}

	target := column.Position
	switch direction {
	case "up":
		target--
	case "down":
		target++
	default:
		return ErrUnknownDirection
	}

	last, err := r.lastPosition(ctx, column.ProjectID)
	if err != nil {
		return err
	}
	if target < 1 || target > last {
		return nil
	}
	return r.ChangePosition(ctx, column.ProjectID, column.ID, target)
}

// CountTasks returns the number of active tasks per column id of a project.
func (r *ColumnRepository) CountTasks(ctx context.Context, projectID int) (map[int]int64, error) {
	type row struct {
		ColumnID int
		Count    int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("column_id, COUNT(*) as count").
		Where("project_id = ? AND is_active = ?", projectID, true).
		Group("column_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	counts := make(map[int]int64, len(rows))
	for _, rw := range rows {
		counts[rw.ColumnID] = rw.Count
	}
	return counts, nil
}

func validateColumn(column *models.Column) error {
	if column.ProjectID <= 0 {
		return fmt.Errorf("%w: project is required", ErrInvalidColumn)
	}
	if column.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidColumn)
	}
	if column.TaskLimit < 0 {
		return fmt.Errorf("%w: task limit must be positive", ErrInvalidColumn)
	}
	return nil
}
