package models

// User roles. Anything other than RoleAdmin is treated as a regular visitor.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// UserModel represents a dashboard account. In practice there is a single
// admin (the portfolio owner), but roles are checked on every request so a
// downgraded account loses access even with a still-valid token.
type UserModel struct {
	Base
	Email    string `json:"email"  gorm:"uniqueIndex;not null"`
	Password string `json:"-"      gorm:"not null"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"   gorm:"default:USER;not null"`
}

func (UserModel) TableName() string { return "users" }
