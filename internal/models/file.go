package models

import "time"

// File is an attachment of a task. Bytes live on disk under Path, relative to the files directory.
type File struct {
	ID      int       `json:"id" gorm:"primaryKey"`
	TaskID  int       `json:"taskId" gorm:"column:task_id;not null;index"`
	Name    string    `json:"name" gorm:"not null"`
	Path    string    `json:"-" gorm:"not null"`
	IsImage bool      `json:"isImage" gorm:"column:is_image"`
	Size    int64     `json:"size"`
	Date    time.Time `json:"date"`
}

// TableName specifies the table name for File Model
func (File) TableName() string {
	return "task_has_files"
}
