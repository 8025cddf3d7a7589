package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"kanboard/internal/cache"
	"kanboard/internal/metrics"
	"kanboard/internal/models"

	"gorm.io/gorm"
)

// MaxCategoryNameLength bounds category names, in characters.
const MaxCategoryNameLength = 50

var (
	ErrCategoryExists  = errors.New("another category with the same name exists in this project")
	ErrInvalidCategory = errors.New("invalid category")
)

// CategoryOption is one entry of a category drop-down.
type CategoryOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository manages project categories and keeps tasks free of
// dangling category references.
type CategoryRepository struct {
	db    *gorm.DB
	cache cache.Cache[int, []models.Category]
	ttl   time.Duration
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithCache makes GetAll and GetList serve per-project lists from c.
// Every write through this repository invalidates the affected project.
// A ttl <= 0 disables caching.
func (r *CategoryRepository) WithCache(c cache.Cache[int, []models.Category], ttl time.Duration) *CategoryRepository {
	if ttl <= 0 {
		r.cache = nil
		r.ttl = 0
		return r
	}
	r.cache = c
	r.ttl = ttl
	return r
}

// withTx returns a repository bound to tx sharing the same cache.
func (r *CategoryRepository) withTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx, cache: r.cache, ttl: r.ttl}
}

func (r *CategoryRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count category: %w", err)
	}
	return count > 0, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetNameByID returns "" when the category does not exist.
func (r *CategoryRepository) GetNameByID(ctx context.Context, id int) (string, error) {
	category, err := r.GetByID(ctx, id)
	switch {
	case err == nil:
		return category.Name, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", nil
	default:
		return "", fmt.Errorf("find category: %w", err)
	}
}

// GetIDByName returns 0 when the project has no category with that name.
func (r *CategoryRepository) GetIDByName(ctx context.Context, projectID int, name string) (int, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND name = ?", projectID, name).
		First(&category).Error
	switch {
	case err == nil:
		return category.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, nil
	default:
		return 0, fmt.Errorf("find category by name: %w", err)
	}
}

// GetAll returns the categories of a project ordered by name.
// A list loaded while a write invalidated the project is returned but not
// cached.
func (r *CategoryRepository) GetAll(ctx context.Context, projectID int) ([]models.Category, error) {
	var gen uint64
	if r.cache != nil {
		if categories, ok := r.cache.Get(projectID); ok {
			metrics.CategoryCacheLookups.WithLabelValues("hit").Inc()
			return categories, nil
		}
		metrics.CategoryCacheLookups.WithLabelValues("miss").Inc()
		gen = r.cache.Generation(projectID)
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if r.cache != nil {
		r.cache.SetIfGeneration(projectID, categories, r.ttl, gen)
	}
	return categories, nil
}

// GetList returns drop-down options for a project. With both flags set the
// order is "No category", "All categories", then the project's categories.
func (r *CategoryRepository) GetList(ctx context.Context, projectID int, prependNone, prependAll bool) ([]CategoryOption, error) {
	categories, err := r.GetAll(ctx, projectID)
	if err != nil {
		return nil, err
	}

	options := make([]CategoryOption, 0, len(categories)+2)
	if prependNone {
		options = append(options, CategoryOption{ID: models.NoCategoryID, Name: "No category"})
	}
	if prependAll {
		options = append(options, CategoryOption{ID: models.AllCategoriesID, Name: "All categories"})
	}
	for _, c := range categories {
		options = append(options, CategoryOption{ID: c.ID, Name: c.Name})
	}
	return options, nil
}

// CreateDefaultCategories adds each name of a comma-separated list to the
// project, skipping blanks and names the project already has.
func (r *CategoryRepository) CreateDefaultCategories(ctx context.Context, projectID int, names string) error {
	for _, raw := range strings.Split(names, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		id, err := r.GetIDByName(ctx, projectID, name)
		if err != nil {
			return err
		}
		if id != 0 {
			continue
		}

		category := models.Category{ProjectID: projectID, Name: name}
		if err := validateCategory(&category); err != nil {
			return err
		}
		if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
			return fmt.Errorf("create default category %q: %w", name, err)
		}
		metrics.CategoryOperations.WithLabelValues("create_default").Inc()
	}

	r.invalidate(projectID)
	return nil
}

// Create inserts a category and returns its id.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) (int, error) {
	category.Name = strings.TrimSpace(category.Name)
	if err := validateCategory(category); err != nil {
		return 0, err
	}

	existing, err := r.GetIDByName(ctx, category.ProjectID, category.Name)
	if err != nil {
		return 0, err
	}
	if existing != 0 {
		return 0, ErrCategoryExists
	}

	category.ID = 0
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}

	r.invalidate(category.ProjectID)
	metrics.CategoryOperations.WithLabelValues("create").Inc()
	return category.ID, nil
}

// Update renames a category. A category cannot change project.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrInvalidCategory)
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	previous, err := r.GetByID(ctx, category.ID)
	if err != nil {
		return err
	}
	if previous.ProjectID != category.ProjectID {
		return fmt.Errorf("%w: a category cannot be moved to another project", ErrInvalidCategory)
	}

	existing, err := r.GetIDByName(ctx, category.ProjectID, category.Name)
	if err != nil {
		return err
	}
	if existing != 0 && existing != category.ID {
		return ErrCategoryExists
	}

	result := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", category.ID).
		Update("name", category.Name)
	if result.Error != nil {
		return fmt.Errorf("update category: %w", result.Error)
	}

	r.invalidate(category.ProjectID)
	metrics.CategoryOperations.WithLabelValues("update").Inc()
	return nil
}

// Remove deletes a category. Tasks referencing it are moved to
// models.NoCategoryID in the same transaction, so a failed delete leaves
// them untouched.
func (r *CategoryRepository) Remove(ctx context.Context, id int) error {
	var (
		category   models.Category
		reassigned int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&category).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Task{}).
			Where("category_id = ?", id).
			Update("category_id", models.NoCategoryID)
		if result.Error != nil {
			return fmt.Errorf("reassign tasks: %w", result.Error)
		}
		reassigned = result.RowsAffected

		result = tx.Where("id = ?", id).Delete(&models.Category{})
		if result.Error != nil {
			return fmt.Errorf("delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidate(category.ProjectID)
	metrics.CategoryOperations.WithLabelValues("remove").Inc()
	metrics.TasksReassigned.Add(float64(reassigned))
	slog.Info("category removed", "category_id", id, "project_id", category.ProjectID, "tasks_reassigned", reassigned)
	return nil
}

// Duplicate copies every category of srcProjectID into dstProjectID,
// skipping names the destination already has. It returns the ids of the
// inserted categories.
func (r *CategoryRepository) Duplicate(ctx context.Context, srcProjectID, dstProjectID int) ([]int, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", srcProjectID).
		Order("id ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var created []int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := r.withTx(tx)
		for _, c := range categories {
			id, err := txRepo.GetIDByName(ctx, dstProjectID, c.Name)
			if err != nil {
				return err
			}
			if id != 0 {
				continue
			}
			copied := models.Category{ProjectID: dstProjectID, Name: c.Name}
			if err := tx.Create(&copied).Error; err != nil {
				return fmt.Errorf("duplicate category %q: %w", c.Name, err)
			}
			created = append(created, copied.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidate(dstProjectID)
	metrics.CategoryOperations.WithLabelValues("duplicate").Inc()
	return created, nil
}

func (r *CategoryRepository) invalidate(projectID int) {
	if r.cache != nil {
		r.cache.Delete(projectID)
	}
}

func validateCategory(category *models.Category) error {
	if category.ProjectID <= 0 {
		return fmt.Errorf("%w: project is required", ErrInvalidCategory)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	if utf8.RuneCountInString(category.Name) > MaxCategoryNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidCategory, MaxCategoryNameLength)
	}
	return nil
}
