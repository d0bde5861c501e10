package models

import "time"

// Tag is a label shared between templates.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"type:varchar(100);uniqueIndex;not null" json:"label"`
}

// TemplateLike exists while the user likes the template.
type TemplateLike struct {
	UserID     uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	TemplateID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"templateId"`
	CreatedAt  time.Time `json:"createdAt"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Template *Template `gorm:"foreignKey:TemplateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
