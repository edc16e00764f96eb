package models

// CategoryModel groups projects.
type CategoryModel struct {
	Base
	Name  string `json:"name"  gorm:"uniqueIndex;not null"`
	Slug  string `json:"slug"  gorm:"uniqueIndex;not null"`
	Color string `json:"color"`

	Projects []ProjectModel `json:"projects,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }
