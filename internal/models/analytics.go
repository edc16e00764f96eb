package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsModel is one page-view event. Append-only: the application never
// updates or deletes rows, aggregation happens at query time.
type AnalyticsModel struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	PagePath  string    `json:"pagePath"  gorm:"index;not null"`
	PageTitle string    `json:"pageTitle"`
	Referrer  string    `json:"referrer"`
	SessionID string    `json:"sessionId" gorm:"index"`
	Duration  int       `json:"duration"  gorm:"default:0"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (AnalyticsModel) TableName() string { return "analytics" }

func (a *AnalyticsModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
