package models

// Column represents an ordered lane of a project board
type Column struct {
	ID          int    `json:"id" gorm:"primaryKey"`
	ProjectID   int    `json:"projectId" gorm:"column:project_id;not null;index"`
	Title       string `json:"title" gorm:"not null"`
	Position    int    `json:"position" gorm:"not null"`
	TaskLimit   int    `json:"taskLimit" gorm:"column:task_limit;default:0"`
	Description string `json:"description"`
}

// TableName specifies the table name for Column Model
func (Column) TableName() string {
	return "columns"
}
