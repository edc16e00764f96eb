package models

// Project publication states observed in the data. The column stays an open
// string so the dashboard can introduce its own workflow labels; only
// StatusPublished is ever checked explicitly.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ProjectModel stores portfolio projects.
type ProjectModel struct {
	Base
	Title            string         `json:"title"            gorm:"not null"`
	Description      string         `json:"description"      gorm:"type:text"`
	ShortDescription string         `json:"shortDescription"`
	ImageURL         string         `json:"imageUrl"`
	Images           StringArray    `json:"images"           gorm:"type:longtext"`
	ProjectURL       string         `json:"projectUrl"`
	GithubURL        string         `json:"githubUrl"`
	Technologies     StringArray    `json:"technologies"     gorm:"type:longtext"`
	CategoryID       *string        `json:"categoryId"       gorm:"index"`
	Category         *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Featured         bool           `json:"featured"         gorm:"default:false"`
	Status           string         `json:"status"           gorm:"default:draft"`
	ViewCount        int            `json:"viewCount"        gorm:"default:0"`
}

func (ProjectModel) TableName() string { return "projects" }
