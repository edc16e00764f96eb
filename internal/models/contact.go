package models

// Contact message workflow states.
const (
	ContactPending = "pending"
	ContactRead    = "read"
	ContactReplied = "replied"
)

// ContactModel is a message from the public contact form. Rows are created by
// visitors and only ever touched again by an admin flipping the status.
type ContactModel struct {
	Base
	Name      string `json:"name"      gorm:"not null"`
	Email     string `json:"email"     gorm:"not null"`
	Subject   string `json:"subject"`
	Message   string `json:"message"   gorm:"type:text;not null"`
	Status    string `json:"status"    gorm:"default:pending;index"`
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent" gorm:"type:text"`
}

func (ContactModel) TableName() string { return "contacts" }
