package models

// SkillModel is a skill shown on the about page. Category is a free label,
// not a foreign key; grouping happens at query time.
type SkillModel struct {
	Base
	Name        string `json:"name"        gorm:"not null"`
	Category    string `json:"category"    gorm:"index"`
	Proficiency int    `json:"proficiency" gorm:"default:0"`
	Icon        string `json:"icon"`
	OrderIndex  int    `json:"orderIndex"  gorm:"default:0"`
}

func (SkillModel) TableName() string { return "skills" }
