package models

import "time"

// Task represents a card on the board
type Task struct {
	ID         int       `json:"id" gorm:"primaryKey"`
	ProjectID  int       `json:"projectId" gorm:"column:project_id;not null;index"`
	ColumnID   int       `json:"columnId" gorm:"column:column_id;index"`
	CategoryID int       `json:"categoryId" gorm:"column:category_id;not null;default:0;index"`
	Title      string    `json:"title" gorm:"not null"`
	IsActive   bool      `json:"isActive" gorm:"column:is_active;default:true"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
