package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"formify.app/models"
	"formify.app/repositories"
)

// memStore is an in-memory stand-in for the database. Nested associations are stored flat
// and assembled on read, the way the GORM preloads return them.
type memStore struct {
	nextID       uint
	users        map[uint]models.User
	templates    map[uint]models.Template
	questions    map[uint]models.Question
	options      map[uint]models.Option
	forms        map[uint]models.Form
	answers      map[uint]models.Answer
	tags         map[uint]models.Tag
	templateTags map[uint][]uint
	likes        map[[2]uint]bool
	topics       map[string]models.Topic
}

func newMemStore() *memStore {
	s := &memStore{
		users:        map[uint]models.User{},
		templates:    map[uint]models.Template{},
		questions:    map[uint]models.Question{},
		options:      map[uint]models.Option{},
		forms:        map[uint]models.Form{},
		answers:      map[uint]models.Answer{},
		tags:         map[uint]models.Tag{},
		templateTags: map[uint][]uint{},
		likes:        map[[2]uint]bool{},
		topics:       map[string]models.Topic{},
	}
	for _, name := range []string{models.TopicOther, models.TopicEducation, models.TopicQuiz, models.TopicFeedback, models.TopicSurvey, models.TopicApplication} {
		s.topics[name] = models.Topic{Name: name}
	}
	return s
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		nextID:       s.nextID,
		users:        make(map[uint]models.User, len(s.users)),
		templates:    make(map[uint]models.Template, len(s.templates)),
		questions:    make(map[uint]models.Question, len(s.questions)),
		options:      make(map[uint]models.Option, len(s.options)),
		forms:        make(map[uint]models.Form, len(s.forms)),
		answers:      make(map[uint]models.Answer, len(s.answers)),
		tags:         make(map[uint]models.Tag, len(s.tags)),
		templateTags: make(map[uint][]uint, len(s.templateTags)),
		likes:        make(map[[2]uint]bool, len(s.likes)),
		topics:       make(map[string]models.Topic, len(s.topics)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.templates {
		c.templates[k] = v
	}
	for k, v := range s.questions {
		c.questions[k] = v
	}
	for k, v := range s.options {
		c.options[k] = v
	}
	for k, v := range s.forms {
		c.forms[k] = v
	}
	for k, v := range s.answers {
		c.answers[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k, v := range s.templateTags {
		c.templateTags[k] = append([]uint(nil), v...)
	}
	for k, v := range s.likes {
		c.likes[k] = v
	}
	for k, v := range s.topics {
		c.topics[k] = v
	}
	return c
}

func (s *memStore) addUser(name string, admin bool) models.User {
	u := models.User{Name: name, Email: strings.ToLower(name) + "@example.com", IsAdmin: admin}
	u.ID = s.id()
	s.users[u.ID] = u
	return u
}

func (s *memStore) likeCount(templateID uint) int {
	n := 0
	for k := range s.likes {
		if k[1] == templateID {
			n++
		}
	}
	return n
}

func (s *memStore) answersOf(formID uint) []models.Answer {
	var out []models.Answer
	for _, a := range s.answers {
		if a.FormID == formID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) templateTree(id uint) models.Template {
	t := s.templates[id]
	if u, ok := s.users[t.UserID]; ok {
		u := u
		t.User = &u
	}
	t.Questions = nil
	for _, q := range s.questions {
		if q.TemplateID != id {
			continue
		}
		q.Options = nil
		for _, o := range s.options {
			if o.QuestionID == q.ID {
				q.Options = append(q.Options, o)
			}
		}
		sort.Slice(q.Options, func(i, j int) bool {
			if q.Options[i].Position != q.Options[j].Position {
				return q.Options[i].Position < q.Options[j].Position
			}
			return q.Options[i].ID < q.Options[j].ID
		})
		t.Questions = append(t.Questions, q)
	}
	sort.Slice(t.Questions, func(i, j int) bool {
		if t.Questions[i].Position != t.Questions[j].Position {
			return t.Questions[i].Position < t.Questions[j].Position
		}
		return t.Questions[i].ID < t.Questions[j].ID
	})
	t.Tags = nil
	for _, tagID := range s.templateTags[id] {
		t.Tags = append(t.Tags, s.tags[tagID])
	}
	return t
}

func (s *memStore) deleteAnswersWhere(match func(models.Answer) bool) {
	for id, a := range s.answers {
		if match(a) {
			delete(s.answers, id)
		}
	}
}

func (s *memStore) deleteQuestion(id uint) {
	s.deleteAnswersWhere(func(a models.Answer) bool { return a.QuestionID == id })
	for oid, o := range s.options {
		if o.QuestionID == id {
			delete(s.options, oid)
		}
	}
	delete(s.questions, id)
}

func (s *memStore) deleteForm(id uint) {
	s.deleteAnswersWhere(func(a models.Answer) bool { return a.FormID == id })
	delete(s.forms, id)
}

func (s *memStore) deleteTemplate(id uint) {
	for fid, f := range s.forms {
		if f.TemplateID == id {
			s.deleteForm(fid)
		}
	}
	for qid, q := range s.questions {
		if q.TemplateID == id {
			s.deleteQuestion(qid)
		}
	}
	for k := range s.likes {
		if k[1] == id {
			delete(s.likes, k)
		}
	}
	delete(s.templateTags, id)
	delete(s.templates, id)
}

// fakeTx restores the store when fn fails, mirroring a rollback.
type fakeTx struct{ s *memStore }

func (f fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := f.s.clone()
	if err := fn(ctx); err != nil {
		*f.s = *snapshot
		return err
	}
	return nil
}

type fakeUsers struct{ s *memStore }

func (f fakeUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range f.s.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = f.s.id()
	f.s.users[user.ID] = *user
	return nil
}

func (f fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f fakeUsers) FindAll(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.s.users))
	for _, u := range f.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeUsers) Update(_ context.Context, id uint, data map[string]interface{}) error {
	u, ok := f.s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	optString := func(v interface{}) *string {
		if s, ok := v.(string); ok {
			return &s
		}
		return nil
	}
	for col, v := range data {
		switch col {
		case "is_blocked":
			u.IsBlocked = v.(bool)
		case "is_admin":
			u.IsAdmin = v.(bool)
		case "is_synced_with_salesforce":
			u.IsSyncedWithSalesforce = v.(bool)
		case "salesforce_account_id":
			u.SalesforceAccountID = optString(v)
		case "salesforce_contact_id":
			u.SalesforceContactID = optString(v)
		}
	}
	f.s.users[id] = u
	return nil
}

func (f fakeUsers) DeleteWithContent(_ context.Context, ids []uint) error {
	for _, id := range ids {
		for tid, t := range f.s.templates {
			if t.UserID == id {
				f.s.deleteTemplate(tid)
			}
		}
		for fid, form := range f.s.forms {
			if form.UserID == id {
				f.s.deleteForm(fid)
			}
		}
		for k := range f.s.likes {
			if k[0] == id {
				delete(f.s.likes, k)
			}
		}
		delete(f.s.users, id)
	}
	return nil
}

type fakeTemplates struct{ s *memStore }

func (f fakeTemplates) Create(_ context.Context, t *models.Template) error {
	t.ID = f.s.id()
	for i := range t.Questions {
		q := &t.Questions[i]
		q.ID, q.TemplateID = f.s.id(), t.ID
		for j := range q.Options {
			o := &q.Options[j]
			o.ID, o.QuestionID = f.s.id(), q.ID
			f.s.options[o.ID] = *o
		}
		flat := *q
		flat.Options = nil
		f.s.questions[q.ID] = flat
	}
	for _, tag := range t.Tags {
		f.s.templateTags[t.ID] = append(f.s.templateTags[t.ID], tag.ID)
	}
	flat := *t
	flat.Questions, flat.Tags, flat.User = nil, nil, nil
	flat.CreatedAt, flat.UpdatedAt = time.Now(), time.Now()
	f.s.templates[t.ID] = flat
	return nil
}

func (f fakeTemplates) FindByID(_ context.Context, id uint) (*models.Template, error) {
	if _, ok := f.s.templates[id]; !ok {
		return nil, repositories.ErrNotFound
	}
	t := f.s.templateTree(id)
	return &t, nil
}

func (f fakeTemplates) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := f.s.templates[id]
	return ok, nil
}

func (f fakeTemplates) LikesCount(_ context.Context, id uint) (int, error) {
	t, ok := f.s.templates[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	return t.LikesCount, nil
}

func (f fakeTemplates) list(keep func(models.Template) bool) []models.Template {
	var out []models.Template
	for id, t := range f.s.templates {
		if keep(t) {
			out = append(out, f.s.templateTree(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f fakeTemplates) FindAll(_ context.Context) ([]models.Template, error) {
	return f.list(func(models.Template) bool { return true }), nil
}

func (f fakeTemplates) FindLatest(_ context.Context, limit int) ([]models.Template, error) {
	out := f.list(func(models.Template) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeTemplates) FindPopular(_ context.Context, limit int) ([]models.Template, error) {
	out := f.list(func(models.Template) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].LikesCount > out[j].LikesCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeTemplates) FindByUserID(_ context.Context, userID uint) ([]models.Template, error) {
	return f.list(func(t models.Template) bool { return t.UserID == userID }), nil
}

func (f fakeTemplates) Search(_ context.Context, p repositories.SearchParams) ([]models.Template, int64, error) {
	out := f.list(func(t models.Template) bool {
		return strings.Contains(strings.ToLower(t.Title), strings.ToLower(p.Query)) &&
			(p.Topic == "" || t.Topic == p.Topic)
	})
	total := int64(len(out))
	start := p.CalculateOffset()
	if start > len(out) {
		start = len(out)
	}
	end := start + p.PerPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (f fakeTemplates) UpdateFields(_ context.Context, t *models.Template) error {
	stored := f.s.templates[t.ID]
	stored.Title, stored.Description, stored.Topic = t.Title, t.Description, t.Topic
	f.s.templates[t.ID] = stored
	return nil
}

func (f fakeTemplates) ReplaceTags(_ context.Context, t *models.Template, tags []models.Tag) error {
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	f.s.templateTags[t.ID] = ids
	return nil
}

func (f fakeTemplates) DeleteCascade(_ context.Context, id uint) error {
	if _, ok := f.s.templates[id]; !ok {
		return repositories.ErrNotFound
	}
	f.s.deleteTemplate(id)
	return nil
}

type fakeQuestions struct{ s *memStore }

func (f fakeQuestions) Create(_ context.Context, q *models.Question) error {
	q.ID = f.s.id()
	for j := range q.Options {
		o := &q.Options[j]
		o.ID, o.QuestionID = f.s.id(), q.ID
		f.s.options[o.ID] = *o
	}
	flat := *q
	flat.Options = nil
	f.s.questions[q.ID] = flat
	return nil
}

func (f fakeQuestions) Update(_ context.Context, q *models.Question) error {
	flat := *q
	flat.Options = nil
	f.s.questions[q.ID] = flat
	return nil
}

func (f fakeQuestions) Delete(_ context.Context, ids []uint) error {
	for _, id := range ids {
		f.s.deleteQuestion(id)
	}
	return nil
}

func (f fakeQuestions) DeleteAnswers(_ context.Context, questionID uint) error {
	f.s.deleteAnswersWhere(func(a models.Answer) bool { return a.QuestionID == questionID })
	return nil
}

func (f fakeQuestions) CreateOption(_ context.Context, o *models.Option) error {
	o.ID = f.s.id()
	f.s.options[o.ID] = *o
	return nil
}

func (f fakeQuestions) UpdateOption(_ context.Context, o *models.Option) error {
	f.s.options[o.ID] = *o
	return nil
}

func (f fakeQuestions) DeleteOptions(_ context.Context, ids []uint) error {
	for _, id := range ids {
		id := id
		f.s.deleteAnswersWhere(func(a models.Answer) bool { return a.OptionID != nil && *a.OptionID == id })
		delete(f.s.options, id)
	}
	return nil
}

type fakeTags struct{ s *memStore }

func (f fakeTags) FindAll(_ context.Context) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(f.s.tags))
	for _, t := range f.s.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (f fakeTags) FindByID(_ context.Context, id uint) (*models.Tag, error) {
	t, ok := f.s.tags[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (f fakeTags) FindOrCreateByLabel(_ context.Context, label string) (*models.Tag, error) {
	for _, t := range f.s.tags {
		if t.Label == label {
			t := t
			return &t, nil
		}
	}
	t := models.Tag{ID: f.s.id(), Label: label}
	f.s.tags[t.ID] = t
	return &t, nil
}

type fakeTopics struct{ s *memStore }

func (f fakeTopics) FindAll(_ context.Context) ([]models.Topic, error) {
	out := make([]models.Topic, 0, len(f.s.topics))
	for _, t := range f.s.topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeTopics) ExistsByName(_ context.Context, name string) (bool, error) {
	_, ok := f.s.topics[name]
	return ok, nil
}

func (f fakeTopics) Upsert(_ context.Context, t *models.Topic) error {
	f.s.topics[t.Name] = *t
	return nil
}

type fakeForms struct{ s *memStore }

func (f fakeForms) FindOrCreate(_ context.Context, templateID, userID uint) (*models.Form, error) {
	for _, form := range f.s.forms {
		if form.TemplateID == templateID && form.UserID == userID {
			form := form
			return &form, nil
		}
	}
	form := models.Form{TemplateID: templateID, UserID: userID}
	form.ID = f.s.id()
	form.CreatedAt, form.UpdatedAt = time.Now(), time.Now()
	f.s.forms[form.ID] = form
	return &form, nil
}

func (f fakeForms) FindByTemplateAndUser(_ context.Context, templateID, userID uint) (*models.Form, error) {
	for _, form := range f.s.forms {
		if form.TemplateID == templateID && form.UserID == userID {
			form.Answers = f.s.answersOf(form.ID)
			return &form, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f fakeForms) FindByID(_ context.Context, id uint) (*models.Form, error) {
	form, ok := f.s.forms[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	t := f.s.templateTree(form.TemplateID)
	form.Template = &t
	if u, ok := f.s.users[form.UserID]; ok {
		form.User = &u
	}
	form.Answers = f.s.answersOf(id)
	return &form, nil
}

func (f fakeForms) where(keep func(models.Form) bool) []models.Form {
	var out []models.Form
	for _, form := range f.s.forms {
		if keep(form) {
			out = append(out, form)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f fakeForms) FindByUserID(_ context.Context, userID uint) ([]models.Form, error) {
	return f.where(func(form models.Form) bool { return form.UserID == userID }), nil
}

func (f fakeForms) FindByTemplateID(_ context.Context, templateID uint) ([]models.Form, error) {
	return f.where(func(form models.Form) bool { return form.TemplateID == templateID }), nil
}

func (f fakeForms) FindWithAnswersByTemplateID(_ context.Context, templateID uint) ([]models.Form, error) {
	out := f.where(func(form models.Form) bool { return form.TemplateID == templateID })
	for i := range out {
		out[i].Answers = f.s.answersOf(out[i].ID)
	}
	return out, nil
}

func (f fakeForms) Touch(_ context.Context, id uint) error {
	form := f.s.forms[id]
	form.UpdatedAt = time.Now()
	f.s.forms[id] = form
	return nil
}

func (f fakeForms) DeleteWithAnswers(_ context.Context, id uint) error {
	if _, ok := f.s.forms[id]; !ok {
		return repositories.ErrNotFound
	}
	f.s.deleteForm(id)
	return nil
}

type fakeAnswers struct{ s *memStore }

func (f fakeAnswers) FindByFormAndQuestion(_ context.Context, formID, questionID uint) ([]models.Answer, error) {
	var out []models.Answer
	for _, a := range f.s.answersOf(formID) {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f fakeAnswers) FindByFormID(_ context.Context, formID uint) ([]models.Answer, error) {
	return f.s.answersOf(formID), nil
}

func (f fakeAnswers) Create(_ context.Context, a *models.Answer) error {
	a.ID = f.s.id()
	f.s.answers[a.ID] = *a
	return nil
}

func (f fakeAnswers) UpdateValue(_ context.Context, a *models.Answer) error {
	f.s.answers[a.ID] = *a
	return nil
}

func (f fakeAnswers) Delete(_ context.Context, ids []uint) error {
	for _, id := range ids {
		delete(f.s.answers, id)
	}
	return nil
}

type fakeLikes struct{ s *memStore }

func (f fakeLikes) Exists(_ context.Context, userID, templateID uint) (bool, error) {
	return f.s.likes[[2]uint{userID, templateID}], nil
}

func (f fakeLikes) Create(_ context.Context, userID, templateID uint) error {
	key := [2]uint{userID, templateID}
	if f.s.likes[key] {
		return repositories.ErrDuplicate
	}
	f.s.likes[key] = true
	return nil
}

func (f fakeLikes) Delete(_ context.Context, userID, templateID uint) (bool, error) {
	key := [2]uint{userID, templateID}
	if !f.s.likes[key] {
		return false, nil
	}
	delete(f.s.likes, key)
	return true, nil
}

func (f fakeLikes) Increment(_ context.Context, templateID uint) error {
	t := f.s.templates[templateID]
	t.LikesCount++
	f.s.templates[templateID] = t
	return nil
}

func (f fakeLikes) Decrement(_ context.Context, templateID uint) error {
	t := f.s.templates[templateID]
	if t.LikesCount > 0 {
		t.LikesCount--
	}
	f.s.templates[templateID] = t
	return nil
}

func (f fakeLikes) TemplateIDsLikedBy(_ context.Context, userIDs []uint) ([]uint, error) {
	users := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		users[id] = true
	}
	seen := map[uint]bool{}
	var out []uint
	for k := range f.s.likes {
		if users[k[0]] && !seen[k[1]] {
			seen[k[1]] = true
			out = append(out, k[1])
		}
	}
	return out, nil
}

func (f fakeLikes) Recount(_ context.Context, templateIDs []uint) error {
	for _, id := range templateIDs {
		t, ok := f.s.templates[id]
		if !ok {
			continue
		}
		t.LikesCount = f.s.likeCount(id)
		f.s.templates[id] = t
	}
	return nil
}

// seedTemplate stores a template owned by owner with the given questions. Choice
// questions get options with the given values.
func seedTemplate(s *memStore, owner uint, questions ...models.Question) models.Template {
	t := &models.Template{Title: "Survey", Topic: models.TopicOther, UserID: owner, Questions: questions}
	for i := range t.Questions {
		t.Questions[i].Position = i
		for j := range t.Questions[i].Options {
			t.Questions[i].Options[j].Position = j
		}
	}
	_ = fakeTemplates{s}.Create(context.Background(), t)
	return s.templateTree(t.ID)
}

func choice(qt models.QuestionType, title string, required bool, values ...string) models.Question {
	q := models.Question{Title: title, Type: qt, Required: required}
	for _, v := range values {
		q.Options = append(q.Options, models.Option{Value: v})
	}
	return q
}

func scalar(qt models.QuestionType, title string, required bool) models.Question {
	return models.Question{Title: title, Type: qt, Required: required}
}
