package services

import (
	"context"
	"errors"

	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/repositories"

	"go.uber.org/zap"
)

// AnswerInput is one submitted answer, keyed by question.
type AnswerInput struct {
	QuestionID uint        `json:"questionId"`
	Answer     interface{} `json:"answer"`
}

// SubmitInput is a complete form submission for a template.
type SubmitInput struct {
	TemplateID uint          `json:"templateId"`
	Answers    []AnswerInput `json:"answers"`
}

// SubmitResult reports the stored form and whether it was newly created.
type SubmitResult struct {
	Form    *models.Form    `json:"form"`
	Answers []models.Answer `json:"answers"`
}

// IFormService submits, reads and deletes filled forms.
type IFormService interface {
	SubmitForm(ctx context.Context, actor Actor, in SubmitInput) (*SubmitResult, error)
	GetFormForTemplate(ctx context.Context, actor Actor, templateID uint) (*models.Form, error)
	GetForm(ctx context.Context, actor Actor, id uint) (*models.Form, error)
	FormsByUser(ctx context.Context, actor Actor, userID uint) ([]models.Form, error)
	FormsForTemplate(ctx context.Context, actor Actor, templateID uint) ([]models.Form, error)
	DeleteForm(ctx context.Context, actor Actor, id uint) error
}

// FormService is the repository backed IFormService.
type FormService struct {
	forms     repositories.IFormRepository
	answers   repositories.IAnswerRepository
	templates repositories.ITemplateRepository
	tx        repositories.ITransactor
}

// NewFormService wires the service to the default database.
func NewFormService() IFormService {
	return &FormService{
		forms:     repositories.NewFormRepository(),
		answers:   repositories.NewAnswerRepository(),
		templates: repositories.NewTemplateRepository(),
		tx:        repositories.NewTransactor(),
	}
}

// NewFormServiceWith builds the service over explicit repositories and transactor.
func NewFormServiceWith(
	forms repositories.IFormRepository,
	answers repositories.IAnswerRepository,
	templates repositories.ITemplateRepository,
	tx repositories.ITransactor,
) IFormService {
	return &FormService{forms: forms, answers: answers, templates: templates, tx: tx}
}

func (s *FormService) loadTemplate(ctx context.Context, id uint) (*models.Template, error) {
	template, err := s.templates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrNotFound, "template not found")
		}
		return nil, err
	}
	return template, nil
}

// SubmitForm finds or creates the caller's form for the template and reconciles the
// submitted answers against the stored ones, all in one transaction.
func (s *FormService) SubmitForm(ctx context.Context, actor Actor, in SubmitInput) (*SubmitResult, error) {
	if actor.ID == 0 {
		return nil, newError(ErrUnauthorized, "login required")
	}
	if in.TemplateID == 0 {
		return nil, newError(ErrInvalidInput, "templateId is required")
	}

	var result SubmitResult
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		template, err := s.loadTemplate(ctx, in.TemplateID)
		if err != nil {
			return err
		}
		questions := make(map[uint]models.Question, len(template.Questions))
		for _, q := range template.Questions {
			questions[q.ID] = q
		}

		form, err := s.forms.FindOrCreate(ctx, template.ID, actor.ID)
		if err != nil {
			return err
		}

		for _, a := range in.Answers {
			q, ok := questions[a.QuestionID]
			if !ok {
				return newError(ErrNotFound, "question %d not found", a.QuestionID)
			}
			if err := s.reconcile(ctx, form.ID, q, a.Answer); err != nil {
				return err
			}
		}

		if err := s.forms.Touch(ctx, form.ID); err != nil {
			return err
		}
		answers, err := s.answers.FindByFormID(ctx, form.ID)
		if err != nil {
			return err
		}
		if err := requireAnswered(template.Questions, answers); err != nil {
			return err
		}
		result = SubmitResult{Form: form, Answers: answers}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidInput) && !errors.Is(err, ErrNotFound) {
			configslog.Log.Error("Form submission failed", zap.Uint("template", in.TemplateID), zap.Uint("user", actor.ID), zap.Error(err))
		}
		return nil, err
	}
	configslog.SLog.Infof("Form submitted: form=%d template=%d user=%d", result.Form.ID, in.TemplateID, actor.ID)
	return &result, nil
}

// requireAnswered checks the stored rows, so answers kept from an earlier
// submission satisfy a required question left out of the payload.
func requireAnswered(questions []models.Question, answers []models.Answer) error {
	answered := make(map[uint]bool, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = true
	}
	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			return newError(ErrInvalidInput, "question %q is required", q.Title)
		}
	}
	return nil
}

func (s *FormService) reconcile(ctx context.Context, formID uint, q models.Question, raw interface{}) error {
	switch {
	case q.Type.IsText():
		text, err := textAnswer(raw)
		if err != nil {
			return err
		}
		if text == "" && q.Required {
			return newError(ErrInvalidInput, "question %q is required", q.Title)
		}
		return s.writeScalar(ctx, formID, q.ID, models.Answer{TextValue: &text})

	case q.Type == models.QuestionTypePositiveInteger:
		n, err := integerAnswer(raw)
		if err != nil {
			return err
		}
		if n <= 0 {
			return newError(ErrInvalidInput, "question %q needs a positive integer", q.Title)
		}
		return s.writeScalar(ctx, formID, q.ID, models.Answer{IntValue: &n})

	default:
		ids, err := optionAnswers(raw)
		if err != nil {
			return err
		}
		if q.Type == models.QuestionTypeMultipleChoice && len(ids) > 1 {
			return newError(ErrInvalidInput, "question %q accepts a single option", q.Title)
		}
		if q.Required && len(ids) == 0 {
			return newError(ErrInvalidInput, "question %q is required", q.Title)
		}
		valid := make(map[uint]bool, len(q.Options))
		for _, o := range q.Options {
			valid[o.ID] = true
		}
		for _, id := range ids {
			if !valid[id] {
				return newError(ErrInvalidInput, "option %d does not belong to question %d", id, q.ID)
			}
		}
		return s.writeOptions(ctx, formID, q.ID, ids)
	}
}

// writeScalar keeps a single row per (form, question), updating it in place.
func (s *FormService) writeScalar(ctx context.Context, formID, questionID uint, value models.Answer) error {
	existing, err := s.answers.FindByFormAndQuestion(ctx, formID, questionID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		value.FormID, value.QuestionID = formID, questionID
		return s.answers.Create(ctx, &value)
	}

	row := existing[0]
	row.OptionID, row.TextValue, row.IntValue = nil, value.TextValue, value.IntValue
	if err := s.answers.UpdateValue(ctx, &row); err != nil {
		return err
	}
	extra := make([]uint, 0, len(existing)-1)
	for _, a := range existing[1:] {
		extra = append(extra, a.ID)
	}
	return s.answers.Delete(ctx, extra)
}

// writeOptions makes the stored option rows equal to the selection, keeping rows that
// are still selected.
func (s *FormService) writeOptions(ctx context.Context, formID, questionID uint, selected []uint) error {
	existing, err := s.answers.FindByFormAndQuestion(ctx, formID, questionID)
	if err != nil {
		return err
	}
	want := make(map[uint]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}
	have := make(map[uint]bool, len(existing))
	var stale []uint
	for _, a := range existing {
		if a.OptionID == nil || !want[*a.OptionID] || have[*a.OptionID] {
			stale = append(stale, a.ID)
			continue
		}
		have[*a.OptionID] = true
	}
	if err := s.answers.Delete(ctx, stale); err != nil {
		return err
	}
	for _, id := range selected {
		if have[id] {
			continue
		}
		optionID := id
		if err := s.answers.Create(ctx, &models.Answer{FormID: formID, QuestionID: questionID, OptionID: &optionID}); err != nil {
			return err
		}
	}
	return nil
}

func (s *FormService) GetFormForTemplate(ctx context.Context, actor Actor, templateID uint) (*models.Form, error) {
	if actor.ID == 0 {
		return nil, newError(ErrUnauthorized, "login required")
	}
	form, err := s.forms.FindByTemplateAndUser(ctx, templateID, actor.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrNotFound, "form not found")
		}
		return nil, err
	}
	return form, nil
}

func (s *FormService) findForm(ctx context.Context, actor Actor, id uint) (*models.Form, error) {
	form, err := s.forms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrNotFound, "form not found")
		}
		return nil, err
	}
	templateOwner := uint(0)
	if form.Template != nil {
		templateOwner = form.Template.UserID
	}
	if !actor.CanManage(form.UserID) && !actor.CanManage(templateOwner) {
		return nil, newError(ErrForbidden, "you cannot access this form")
	}
	return form, nil
}

// GetForm is allowed for the respondent, the template owner and admins.
func (s *FormService) GetForm(ctx context.Context, actor Actor, id uint) (*models.Form, error) {
	return s.findForm(ctx, actor, id)
}

func (s *FormService) FormsByUser(ctx context.Context, actor Actor, userID uint) ([]models.Form, error) {
	if !actor.CanManage(userID) {
		return nil, newError(ErrForbidden, "you cannot list these forms")
	}
	return s.forms.FindByUserID(ctx, userID)
}

func (s *FormService) FormsForTemplate(ctx context.Context, actor Actor, templateID uint) ([]models.Form, error) {
	template, err := s.loadTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(template.UserID) {
		return nil, newError(ErrForbidden, "you cannot list forms of this template")
	}
	return s.forms.FindByTemplateID(ctx, templateID)
}

// DeleteForm removes the form and its answers. Likes are untouched.
func (s *FormService) DeleteForm(ctx context.Context, actor Actor, id uint) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.findForm(ctx, actor, id); err != nil {
			return err
		}
		if err := s.forms.DeleteWithAnswers(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return newError(ErrNotFound, "form not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	configslog.SLog.Infof("Form deleted: id=%d by user=%d", id, actor.ID)
	return nil
}
