package repository

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"kanboard/internal/models"

	"gorm.io/gorm"
)

// Viewer types of a file.
const (
	ViewImage    = "image"
	ViewMarkdown = "markdown"
	ViewText     = "text"
	ViewDownload = "download"
)

var ErrInvalidFile = errors.New("invalid file")

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// FileRepository stores task attachments: metadata in task_has_files,
// bytes on disk below dir.
type FileRepository struct {
	db  *gorm.DB
	dir string
}

func NewFileRepository(db *gorm.DB, dir string) *FileRepository {
	return &FileRepository{db: db, dir: dir}
}

func (r *FileRepository) GetByID(ctx context.Context, id int) (*models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// GetAll returns the files of a task, images first then by name.
func (r *FileRepository) GetAll(ctx context.Context, taskID int) ([]models.File, error) {
	var files []models.File
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("is_image DESC, name ASC").
		Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Create writes content to disk and records it against the task.
func (r *FileRepository) Create(ctx context.Context, taskID int, name string, content []byte) (*models.File, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if taskID <= 0 || name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: task and name are required", ErrInvalidFile)
	}

	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	sum := sha1.Sum([]byte(name + strconv.FormatInt(now.UnixNano(), 10)))
	rel := filepath.Join("tasks", strconv.Itoa(task.ProjectID), strconv.Itoa(taskID), hex.EncodeToString(sum[:]))

	abs := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create file dir: %w", err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	file := models.File{
		TaskID:  taskID,
		Name:    name,
		Path:    filepath.ToSlash(rel),
		IsImage: IsImageName(name),
		Size:    int64(len(content)),
		Date:    now,
	}
	if err := r.db.WithContext(ctx).Create(&file).Error; err != nil {
		_ = os.Remove(abs)
		return nil, fmt.Errorf("create file: %w", err)
	}
	return &file, nil
}

// ReadContent returns the stored bytes of file.
func (r *FileRepository) ReadContent(file *models.File) ([]byte, error) {
	data, err := os.ReadFile(r.absPath(file.Path))
	if err != nil {
		return nil, fmt.Errorf("read file %d: %w", file.ID, err)
	}
	return data, nil
}

// AbsPath returns where the bytes of file live on disk.
func (r *FileRepository) AbsPath(file *models.File) string {
	return r.absPath(file.Path)
}

// Remove deletes the row, then the bytes. A missing file on disk is not an error.
func (r *FileRepository) Remove(ctx context.Context, id int) error {
	file, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.File{}, id).Error; err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return r.RemoveContent(file.Path)
}

// RemoveContent deletes stored bytes by their relative path.
func (r *FileRepository) RemoveContent(path string) error {
	if err := os.Remove(r.absPath(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file content: %w", err)
	}
	return nil
}

func (r *FileRepository) absPath(rel string) string {
	return filepath.Join(r.dir, filepath.FromSlash(rel))
}

// IsImageName reports whether a file name has an image extension the viewer can display inline.
func IsImageName(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ViewerType picks how the file viewer renders file and its content.
func ViewerType(file *models.File, content []byte) string {
	if file.IsImage {
		return ViewImage
	}
	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".md", ".markdown":
		return ViewMarkdown
	}
	if utf8.Valid(content) && !strings.ContainsRune(string(content), 0) {
		return ViewText
	}
	return ViewDownload
}
