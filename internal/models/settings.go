package models

import "time"

// SettingsID is the fixed primary key of the settings singleton.
const SettingsID = "default"

// SiteSettingsModel is a single well-known row holding site branding and the
// owner's public profile. It is created with defaults on startup and updated
// last-write-wins (single-admin usage, no optimistic lock).
type SiteSettingsModel struct {
	ID              string    `json:"id"              gorm:"type:varchar(36);primaryKey"`
	SiteName        string    `json:"siteName"        gorm:"not null"`
	SiteDescription string    `json:"siteDescription" gorm:"type:text"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	Bio             string    `json:"bio"             gorm:"type:text"`
	Avatar          string    `json:"avatar"`
	HeroImage       string    `json:"heroImage"`
	Email           string    `json:"email"`
	Location        string    `json:"location"`
	ResumeURL       string    `json:"resumeUrl"`
	GithubURL       string    `json:"githubUrl"`
	LinkedinURL     string    `json:"linkedinUrl"`
	TwitterURL      string    `json:"twitterUrl"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (SiteSettingsModel) TableName() string { return "site_settings" }
