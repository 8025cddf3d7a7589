package models

// NoCategoryID is the category_id carried by tasks without a category.
const NoCategoryID = 0

// AllCategoriesID is the option value used by filters to mean "any category".
const AllCategoriesID = -1

// Category is a named label scoped to a project, assignable to tasks.
// Names are unique per project; the application checks this by lookup, not the schema.
type Category struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	ProjectID int    `json:"projectId" gorm:"column:project_id;not null;index"`
	Name      string `json:"name" gorm:"not null"`
}

// TableName specifies the table name for Category Model
func (Category) TableName() string {
	return "project_has_categories"
}
