package models

import "time"

// UserSession backs the cookie side of the auth gate. The cookie carries the
// opaque Token; the row keeps expiry and revocation state server-side.
type UserSession struct {
	Base
	UserID    string     `json:"user_id"    gorm:"index;not null"`
	Token     string     `json:"-"          gorm:"uniqueIndex;not null"`
	IP        string     `json:"ip"`
	UA        string     `json:"ua"         gorm:"type:text"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`
}

func (UserSession) TableName() string { return "user_sessions" }
