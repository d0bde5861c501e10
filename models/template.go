package models

// Template is the reusable definition of a form.
type Template struct {
	BaseModel
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Topic       string `gorm:"type:varchar(50);not null;default:other;index" json:"topic"`
	LikesCount  int    `gorm:"not null;default:0;index" json:"likesCount"`
	UserID      uint   `gorm:"index;not null" json:"userId"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Questions []Question `gorm:"foreignKey:TemplateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"questions,omitempty"`
	Tags      []Tag      `gorm:"many2many:template_tags;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tags,omitempty"`
}
