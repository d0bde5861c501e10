package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/pkg/queryparams"
	"formify.app/repositories"

	"go.uber.org/zap"
)

const (
	untitledQuestion = "Untitled question"
	homeListLimit    = 5
)

type TagInput struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

type OptionInput struct {
	ID    uint   `json:"id"`
	Value string `json:"value"`
}

type QuestionInput struct {
	ID       uint                `json:"id"`
	Title    string              `json:"title"`
	Type     models.QuestionType `json:"type"`
	Required bool                `json:"required"`
	Options  []OptionInput       `json:"options"`
}

// TemplateInput is the full desired state of a template, used for create and update.
type TemplateInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Topic       string          `json:"topic"`
	Tags        []TagInput      `json:"tags"`
	Questions   []QuestionInput `json:"questions"`
}

// SearchInput holds the query string filters of a template search.
type SearchInput struct {
	Query string `query:"query"`
	Topic string `query:"topic"`
	Tag   string `query:"tag"`
	queryparams.ListParams
}

// ITemplateService creates, edits, deletes and queries templates.
type ITemplateService interface {
	CreateTemplate(ctx context.Context, actor Actor, in TemplateInput) (*models.Template, error)
	UpdateTemplate(ctx context.Context, actor Actor, id uint, in TemplateInput) (*models.Template, error)
	DeleteTemplate(ctx context.Context, actor Actor, id uint) error
	GetTemplate(ctx context.Context, id uint) (*models.Template, error)
	ListTemplates(ctx context.Context) ([]models.Template, error)
	LatestTemplates(ctx context.Context) ([]models.Template, error)
	PopularTemplates(ctx context.Context) ([]models.Template, error)
	TemplatesByUser(ctx context.Context, userID uint) ([]models.Template, error)
	SearchTemplates(ctx context.Context, in SearchInput) (*queryparams.PaginatedResult, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
}

// TemplateService is the repository backed ITemplateService.
type TemplateService struct {
	templates repositories.ITemplateRepository
	questions repositories.IQuestionRepository
	tags      repositories.ITagRepository
	topics    repositories.ITopicRepository
	tx        repositories.ITransactor
}

// NewTemplateService wires the service to the default database.
func NewTemplateService() ITemplateService {
	return &TemplateService{
		templates: repositories.NewTemplateRepository(),
		questions: repositories.NewQuestionRepository(),
		tags:      repositories.NewTagRepository(),
		topics:    repositories.NewTopicRepository(),
		tx:        repositories.NewTransactor(),
	}
}

// NewTemplateServiceWith builds the service over explicit repositories and transactor.
func NewTemplateServiceWith(
	templates repositories.ITemplateRepository,
	questions repositories.IQuestionRepository,
	tags repositories.ITagRepository,
	topics repositories.ITopicRepository,
	tx repositories.ITransactor,
) ITemplateService {
	return &TemplateService{templates: templates, questions: questions, tags: tags, topics: topics, tx: tx}
}

// questionFamily groups types whose answers are stored in the same column.
func questionFamily(t models.QuestionType) string {
	switch {
	case t.IsChoice():
		return "choice"
	case t.IsText():
		return "text"
	}
	return "integer"
}

func (s *TemplateService) normalize(ctx context.Context, in *TemplateInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return newError(ErrInvalidInput, "title is required")
	}
	if utf8.RuneCountInString(in.Title) > 255 {
		return newError(ErrInvalidInput, "title must be at most 255 characters")
	}
	in.Topic = strings.TrimSpace(strings.ToLower(in.Topic))
	if in.Topic == "" {
		in.Topic = models.TopicOther
	}
	known, err := s.topics.ExistsByName(ctx, in.Topic)
	if err != nil {
		return err
	}
	if !known {
		return newError(ErrInvalidInput, "unknown topic %q", in.Topic)
	}

	for i := range in.Questions {
		q := &in.Questions[i]
		if !q.Type.Valid() {
			return newError(ErrInvalidInput, "question %d has unknown type %q", i+1, q.Type)
		}
		q.Title = strings.TrimSpace(q.Title)
		if q.Title == "" {
			q.Title = untitledQuestion
		}
		if !q.Type.IsChoice() {
			q.Options = nil
			continue
		}
		for j := range q.Options {
			q.Options[j].Value = strings.TrimSpace(q.Options[j].Value)
			if q.Options[j].Value == "" {
				return newError(ErrInvalidInput, "question %d has an empty option", i+1)
			}
		}
	}
	return nil
}

// resolveTags looks tags up by id, falling back to the label, and creates missing labels.
func (s *TemplateService) resolveTags(ctx context.Context, inputs []TagInput) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(inputs))
	seen := map[uint]bool{}
	for _, in := range inputs {
		label := strings.TrimSpace(in.Label)
		var tag *models.Tag
		if in.ID != 0 {
			found, err := s.tags.FindByID(ctx, in.ID)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
			tag = found
		}
		if tag == nil {
			if label == "" {
				continue
			}
			created, err := s.tags.FindOrCreateByLabel(ctx, label)
			if err != nil {
				return nil, err
			}
			tag = created
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		tags = append(tags, *tag)
	}
	return tags, nil
}

func buildOptions(inputs []OptionInput) []models.Option {
	options := make([]models.Option, 0, len(inputs))
	for i, o := range inputs {
		options = append(options, models.Option{Value: o.Value, Position: i})
	}
	return options
}

func (s *TemplateService) CreateTemplate(ctx context.Context, actor Actor, in TemplateInput) (*models.Template, error) {
	if actor.ID == 0 {
		return nil, newError(ErrUnauthorized, "login required")
	}
	if err := s.normalize(ctx, &in); err != nil {
		return nil, err
	}

	var templateID uint
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		tags, err := s.resolveTags(ctx, in.Tags)
		if err != nil {
			return err
		}
		template := &models.Template{
			Title:       in.Title,
			Description: in.Description,
			Topic:       in.Topic,
			UserID:      actor.ID,
			Tags:        tags,
		}
		for i, q := range in.Questions {
			template.Questions = append(template.Questions, models.Question{
				Title:    q.Title,
				Type:     q.Type,
				Required: q.Required,
				Position: i,
				Options:  buildOptions(q.Options),
			})
		}
		if err := s.templates.Create(ctx, template); err != nil {
			return err
		}
		templateID = template.ID
		return nil
	})
	if err != nil {
		configslog.Log.Error("Template creation failed", zap.Uint("user", actor.ID), zap.Error(err))
		return nil, err
	}
	configslog.SLog.Infof("Template created: id=%d user=%d", templateID, actor.ID)
	return s.GetTemplate(ctx, templateID)
}

// UpdateTemplate converges the stored template tree to in, inside one transaction.
func (s *TemplateService) UpdateTemplate(ctx context.Context, actor Actor, id uint, in TemplateInput) (*models.Template, error) {
	if err := s.normalize(ctx, &in); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.GetTemplate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(existing.UserID) {
			return newError(ErrForbidden, "you cannot edit this template")
		}

		existing.Title, existing.Description, existing.Topic = in.Title, in.Description, in.Topic
		if err := s.templates.UpdateFields(ctx, existing); err != nil {
			return err
		}
		tags, err := s.resolveTags(ctx, in.Tags)
		if err != nil {
			return err
		}
		if err := s.templates.ReplaceTags(ctx, existing, tags); err != nil {
			return err
		}

		current := make(map[uint]models.Question, len(existing.Questions))
		for _, q := range existing.Questions {
			current[q.ID] = q
		}
		kept := make(map[uint]bool, len(in.Questions))
		for pos, qi := range in.Questions {
			old, ok := current[qi.ID]
			if qi.ID == 0 || !ok || kept[qi.ID] {
				q := models.Question{
					TemplateID: id,
					Title:      qi.Title,
					Type:       qi.Type,
					Required:   qi.Required,
					Position:   pos,
					Options:    buildOptions(qi.Options),
				}
				if err := s.questions.Create(ctx, &q); err != nil {
					return err
				}
				continue
			}
			kept[old.ID] = true
			if err := s.updateQuestion(ctx, old, qi, pos); err != nil {
				return err
			}
		}

		var removed []uint
		for _, q := range existing.Questions {
			if !kept[q.ID] {
				removed = append(removed, q.ID)
			}
		}
		return s.questions.Delete(ctx, removed)
	})
	if err != nil {
		if !errors.Is(err, ErrForbidden) && !errors.Is(err, ErrNotFound) {
			configslog.Log.Error("Template update failed", zap.Uint("id", id), zap.Uint("user", actor.ID), zap.Error(err))
		}
		return nil, err
	}
	configslog.SLog.Infof("Template updated: id=%d user=%d", id, actor.ID)
	return s.GetTemplate(ctx, id)
}

// answersSurvive reports whether answers stored under from stay valid under to.
// Narrowing checkBoxes to multipleChoice would leave several rows per form.
func answersSurvive(from, to models.QuestionType) bool {
	if questionFamily(from) != questionFamily(to) {
		return false
	}
	return !(from == models.QuestionTypeCheckBoxes && to == models.QuestionTypeMultipleChoice)
}

func (s *TemplateService) updateQuestion(ctx context.Context, old models.Question, in QuestionInput, pos int) error {
	if !answersSurvive(old.Type, in.Type) {
		if err := s.questions.DeleteAnswers(ctx, old.ID); err != nil {
			return err
		}
	}
	q := old
	q.Title, q.Type, q.Required, q.Position = in.Title, in.Type, in.Required, pos
	if err := s.questions.Update(ctx, &q); err != nil {
		return err
	}

	current := make(map[uint]bool, len(old.Options))
	for _, o := range old.Options {
		current[o.ID] = true
	}
	kept := make(map[uint]bool, len(in.Options))
	for i, oi := range in.Options {
		if oi.ID != 0 && current[oi.ID] && !kept[oi.ID] {
			kept[oi.ID] = true
			if err := s.questions.UpdateOption(ctx, &models.Option{BaseModel: models.BaseModel{ID: oi.ID}, QuestionID: old.ID, Value: oi.Value, Position: i}); err != nil {
				return err
			}
			continue
		}
		if err := s.questions.CreateOption(ctx, &models.Option{QuestionID: old.ID, Value: oi.Value, Position: i}); err != nil {
			return err
		}
	}
	var removed []uint
	for _, o := range old.Options {
		if !kept[o.ID] {
			removed = append(removed, o.ID)
		}
	}
	return s.questions.DeleteOptions(ctx, removed)
}

// DeleteTemplate removes the template with its questions, options, forms, answers and likes.
func (s *TemplateService) DeleteTemplate(ctx context.Context, actor Actor, id uint) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.GetTemplate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(existing.UserID) {
			return newError(ErrForbidden, "you cannot delete this template")
		}
		if err := s.templates.DeleteCascade(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return newError(ErrNotFound, "template not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	configslog.SLog.Infof("Template deleted: id=%d by user=%d", id, actor.ID)
	return nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id uint) (*models.Template, error) {
	template, err := s.templates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrNotFound, "template not found")
		}
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]models.Template, error) {
	return s.templates.FindAll(ctx)
}

func (s *TemplateService) LatestTemplates(ctx context.Context) ([]models.Template, error) {
	return s.templates.FindLatest(ctx, homeListLimit)
}

func (s *TemplateService) PopularTemplates(ctx context.Context) ([]models.Template, error) {
	return s.templates.FindPopular(ctx, homeListLimit)
}

func (s *TemplateService) TemplatesByUser(ctx context.Context, userID uint) ([]models.Template, error) {
	return s.templates.FindByUserID(ctx, userID)
}

func (s *TemplateService) SearchTemplates(ctx context.Context, in SearchInput) (*queryparams.PaginatedResult, error) {
	in.Query = strings.TrimSpace(in.Query)
	if in.Query == "" && in.Topic == "" && in.Tag == "" {
		return nil, newError(ErrInvalidInput, "query parameter is required")
	}
	in.ListParams.Validate()
	templates, total, err := s.templates.Search(ctx, repositories.SearchParams{
		Query:      in.Query,
		Topic:      in.Topic,
		Tag:        in.Tag,
		ListParams: in.ListParams,
	})
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(templates, total, in.ListParams), nil
}

func (s *TemplateService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.FindAll(ctx)
}

func (s *TemplateService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return s.topics.FindAll(ctx)
}
