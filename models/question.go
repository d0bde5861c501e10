package models

// QuestionType decides which Answer field is populated and how statistics are bucketed.
type QuestionType string

const (
	QuestionTypeCheckBoxes      QuestionType = "checkBoxes"
	QuestionTypeShortAnswer     QuestionType = "shortAnswer"
	QuestionTypeParagraph       QuestionType = "paragraph"
	QuestionTypeMultipleChoice  QuestionType = "multipleChoice"
	QuestionTypePositiveInteger QuestionType = "positiveInteger"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeCheckBoxes, QuestionTypeShortAnswer, QuestionTypeParagraph,
		QuestionTypeMultipleChoice, QuestionTypePositiveInteger:
		return true
	}
	return false
}

// IsChoice: answers reference options.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeCheckBoxes || t == QuestionTypeMultipleChoice
}

// IsText: answers carry TextValue.
func (t QuestionType) IsText() bool {
	return t == QuestionTypeShortAnswer || t == QuestionTypeParagraph
}

// Question belongs to a Template. Position is its index in the template's list.
type Question struct {
	BaseModel
	TemplateID uint         `gorm:"index;not null" json:"templateId"`
	Title      string       `gorm:"type:varchar(500);not null" json:"title"`
	Type       QuestionType `gorm:"type:varchar(30);not null" json:"type"`
	Required   bool         `gorm:"not null;default:false" json:"required"`
	Position   int          `gorm:"not null;default:0" json:"position"`

	Options []Option `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"options"`
}

// Option is one choice of a checkBoxes or multipleChoice question.
type Option struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Value      string `gorm:"type:varchar(500);not null" json:"value"`
	Position   int    `gorm:"not null;default:0" json:"position"`
}
