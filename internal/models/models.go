package models

// All returns every model handled by migrations.
func All() []any {
	return []any{&User{}, &Project{}, &Column{}, &Category{}, &Task{}, &File{}}
}
