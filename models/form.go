package models

// Form is one user's response to one template. (TemplateID, UserID) is unique.
type Form struct {
	BaseModel
	TemplateID uint `gorm:"not null;uniqueIndex:idx_forms_template_user" json:"templateId"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_forms_template_user;index" json:"userId"`

	Template *Template `gorm:"foreignKey:TemplateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"template,omitempty"`
	User     *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Answers  []Answer  `gorm:"foreignKey:FormID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"answers,omitempty"`
}

// Answer records one value for a question within a form. Exactly one of OptionID,
// TextValue and IntValue is set, matching the question type. Checkbox questions have
// one row per selected option.
type Answer struct {
	BaseModel
	FormID     uint    `gorm:"index;not null" json:"formId"`
	QuestionID uint    `gorm:"index;not null" json:"questionId"`
	OptionID   *uint   `gorm:"index" json:"optionId"`
	TextValue  *string `gorm:"type:text" json:"textValue"`
	IntValue   *int64  `json:"intValue"`

	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"question,omitempty"`
	Option   *Option   `gorm:"foreignKey:OptionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"option,omitempty"`
}
