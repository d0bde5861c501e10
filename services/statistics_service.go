package services

import (
	"context"
	"errors"
	"io"
	"time"

	"formify.app/models"
	"formify.app/pkg/charts"
	"formify.app/pkg/statistics"
	"formify.app/repositories"
)

// TemplateStatistics aggregates the answers given to one template.
type TemplateStatistics struct {
	Template   *models.Template           `json:"template"`
	TotalForms int                        `json:"totalForms"`
	CreatedAt  time.Time                  `json:"createdAt"`
	UpdatedAt  time.Time                  `json:"updatedAt"`
	Questions  []statistics.QuestionStats `json:"questions"`
}

// IStatisticsService computes per question aggregates and charts.
type IStatisticsService interface {
	TemplateStatistics(ctx context.Context, templateID uint) (*TemplateStatistics, error)
	RenderChart(ctx context.Context, w io.Writer, templateID, questionID uint) error
}

// StatisticsService is the repository backed IStatisticsService.
type StatisticsService struct {
	templates repositories.ITemplateRepository
	forms     repositories.IFormRepository
}

// NewStatisticsService wires the service to the default database.
func NewStatisticsService() IStatisticsService {
	return &StatisticsService{
		templates: repositories.NewTemplateRepository(),
		forms:     repositories.NewFormRepository(),
	}
}

// NewStatisticsServiceWith builds the service over explicit repositories.
func NewStatisticsServiceWith(templates repositories.ITemplateRepository, forms repositories.IFormRepository) IStatisticsService {
	return &StatisticsService{templates: templates, forms: forms}
}

// TemplateStatistics aggregates every submission of the template. CreatedAt and UpdatedAt
// span the earliest and latest form, falling back to the template's own timestamps.
func (s *StatisticsService) TemplateStatistics(ctx context.Context, templateID uint) (*TemplateStatistics, error) {
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrNotFound, "template not found")
		}
		return nil, err
	}
	forms, err := s.forms.FindWithAnswersByTemplateID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	summary := statistics.Aggregate(template.Questions, forms)
	result := &TemplateStatistics{
		Template:   template,
		TotalForms: summary.TotalForms,
		CreatedAt:  template.CreatedAt,
		UpdatedAt:  template.UpdatedAt,
		Questions:  summary.Questions,
	}
	for i, f := range forms {
		if i == 0 || f.CreatedAt.Before(result.CreatedAt) {
			result.CreatedAt = f.CreatedAt
		}
		if i == 0 || f.UpdatedAt.After(result.UpdatedAt) {
			result.UpdatedAt = f.UpdatedAt
		}
	}
	return result, nil
}

func (s *StatisticsService) RenderChart(ctx context.Context, w io.Writer, templateID, questionID uint) error {
	stats, err := s.TemplateStatistics(ctx, templateID)
	if err != nil {
		return err
	}
	for _, q := range stats.Questions {
		if q.QuestionID != questionID {
			continue
		}
		if err := charts.Render(w, q); err != nil {
			if errors.Is(err, charts.ErrNoChart) {
				return newError(ErrNotFound, "no chart data for this question")
			}
			return err
		}
		return nil
	}
	return newError(ErrNotFound, "question not found")
}
