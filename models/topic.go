package models

// Topic is a browse category for templates.
type Topic struct {
	BaseModel
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

const (
	TopicOther       = "other"
	TopicEducation   = "education"
	TopicQuiz        = "quiz"
	TopicFeedback    = "feedback"
	TopicSurvey      = "survey"
	TopicApplication = "application"
)
