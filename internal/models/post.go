package models

import "time"

// BlogPostModel is a blog post. The slug is the public identifier; the
// internal id only surfaces as a deletion fallback when a slug fails to
// round-trip through a URL.
type BlogPostModel struct {
	Base
	Title       string      `json:"title"        gorm:"not null"`
	Slug        string      `json:"slug"         gorm:"uniqueIndex;not null"`
	Excerpt     string      `json:"excerpt"`
	Content     string      `json:"content"      gorm:"type:longtext"`
	CoverImage  string      `json:"coverImage"`
	Images      StringArray `json:"images"       gorm:"type:longtext"`
	Tags        StringArray `json:"tags"         gorm:"type:longtext"`
	Published   bool        `json:"published"    gorm:"default:false;index"`
	Featured    bool        `json:"featured"     gorm:"default:false"`
	ViewCount   int         `json:"viewCount"    gorm:"default:0"`
	PublishedAt *time.Time  `json:"publishedAt"`
}

func (BlogPostModel) TableName() string { return "blog_posts" }
