package repositories

import (
	"context"
	"strings"

	"formify.app/configs"
	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/pkg/queryparams"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SearchParams filters templates. Empty fields are ignored.
type SearchParams struct {
	Query string
	Topic string
	Tag   string
	queryparams.ListParams
}

type ITemplateRepository interface {
	Create(ctx context.Context, template *models.Template) error
	FindByID(ctx context.Context, id uint) (*models.Template, error)
	Exists(ctx context.Context, id uint) (bool, error)
	LikesCount(ctx context.Context, id uint) (int, error)
	FindAll(ctx context.Context) ([]models.Template, error)
	FindLatest(ctx context.Context, limit int) ([]models.Template, error)
	FindPopular(ctx context.Context, limit int) ([]models.Template, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Template, error)
	Search(ctx context.Context, params SearchParams) ([]models.Template, int64, error)
	UpdateFields(ctx context.Context, template *models.Template) error
	ReplaceTags(ctx context.Context, template *models.Template, tags []models.Tag) error
	DeleteCascade(ctx context.Context, id uint) error
}

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository() ITemplateRepository {
	return &TemplateRepository{db: configs.GetDB()}
}

func NewTemplateRepositoryTx(tx *gorm.DB) ITemplateRepository {
	return &TemplateRepository{db: tx}
}

// Create inserts the template with its questions and options. Tags must already exist;
// only the join rows are written.
func (r *TemplateRepository) Create(ctx context.Context, template *models.Template) error {
	return translate(getDB(ctx, r.db).Omit("User", "Tags.*").Create(template).Error)
}

func (r *TemplateRepository) FindByID(ctx context.Context, id uint) (*models.Template, error) {
	var template models.Template
	err := getDB(ctx, r.db).
		Preload("User", ownerColumns).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.label ASC") }).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.position ASC, questions.id ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("options.position ASC, options.id ASC") }).
		First(&template, id).Error
	if err != nil {
		if translate(err) != ErrNotFound {
			configslog.Log.Error("TemplateRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		}
		return nil, translate(err)
	}
	return &template, nil
}

func (r *TemplateRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Template{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *TemplateRepository) LikesCount(ctx context.Context, id uint) (int, error) {
	var template models.Template
	if err := getDB(ctx, r.db).Select("id", "likes_count").First(&template, id).Error; err != nil {
		return 0, translate(err)
	}
	return template.LikesCount, nil
}

func (r *TemplateRepository) listQuery(ctx context.Context) *gorm.DB {
	return getDB(ctx, r.db).Model(&models.Template{}).Preload("User", ownerColumns)
}

func (r *TemplateRepository) FindAll(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	err := r.listQuery(ctx).Order("created_at DESC, id DESC").Find(&templates).Error
	return templates, err
}

func (r *TemplateRepository) FindLatest(ctx context.Context, limit int) ([]models.Template, error) {
	var templates []models.Template
	err := r.listQuery(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&templates).Error
	return templates, err
}

func (r *TemplateRepository) FindPopular(ctx context.Context, limit int) ([]models.Template, error) {
	var templates []models.Template
	err := r.listQuery(ctx).Order("likes_count DESC, created_at DESC").Limit(limit).Find(&templates).Error
	return templates, err
}

func (r *TemplateRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Template, error) {
	var templates []models.Template
	err := r.listQuery(ctx).Preload("Tags").Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&templates).Error
	return templates, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applySearchFilters(b sq.SelectBuilder, params SearchParams) sq.SelectBuilder {
	if q := strings.TrimSpace(params.Query); q != "" {
		b = b.Where(sq.ILike{"templates.title": "%" + likeEscaper.Replace(q) + "%"})
	}
	if params.Topic != "" {
		b = b.Where(sq.Eq{"templates.topic": params.Topic})
	}
	if params.Tag != "" {
		// EXISTS, not a join: labels differing only in case would duplicate rows.
		tagged := sq.Select("1").From("template_tags").
			Join("tags ON tags.id = template_tags.tag_id").
			Where("template_tags.template_id = templates.id").
			Where(sq.Expr("LOWER(tags.label) = LOWER(?)", params.Tag))
		b = b.Where(sq.Expr("EXISTS (?)", tagged))
	}
	return b
}

// Search matches the title case-insensitively and filters by topic and tag label.
func (r *TemplateRepository) Search(ctx context.Context, params SearchParams) ([]models.Template, int64, error) {
	params.Validate()
	db := getDB(ctx, r.db)

	countSQL, countArgs, err := applySearchFilters(sq.Select("COUNT(*)").From("templates"), params).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		configslog.Log.Error("TemplateRepository.Search: count failed", zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return []models.Template{}, 0, nil
	}

	idSQL, idArgs, err := applySearchFilters(sq.Select("templates.id").From("templates"), params).
		OrderBy("templates.created_at DESC", "templates.id DESC").
		Limit(uint64(params.PerPage)).
		Offset(uint64(params.CalculateOffset())).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	var ids []uint
	if err := db.Raw(idSQL, idArgs...).Scan(&ids).Error; err != nil {
		configslog.Log.Error("TemplateRepository.Search: id query failed", zap.Error(err))
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []models.Template{}, total, nil
	}

	var templates []models.Template
	err = r.listQuery(ctx).Preload("Tags").Where("id IN ?", ids).Order("created_at DESC, id DESC").Find(&templates).Error
	return templates, total, err
}

func (r *TemplateRepository) UpdateFields(ctx context.Context, template *models.Template) error {
	result := getDB(ctx, r.db).Model(&models.Template{}).Where("id = ?", template.ID).
		Select("title", "description", "topic").
		Updates(map[string]interface{}{
			"title":       template.Title,
			"description": template.Description,
			"topic":       template.Topic,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TemplateRepository) ReplaceTags(ctx context.Context, template *models.Template, tags []models.Tag) error {
	if tags == nil {
		tags = []models.Tag{}
	}
	return getDB(ctx, r.db).Model(template).Omit("Tags.*").Association("Tags").Replace(tags)
}

// DeleteCascade removes the template and all rows hanging off it. Call it inside a
// transaction.
func (r *TemplateRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)
	forms := db.Model(&models.Form{}).Select("id").Where("template_id = ?", id)
	questions := db.Model(&models.Question{}).Select("id").Where("template_id = ?", id)

	if err := db.Where("form_id IN (?) OR question_id IN (?)", forms, questions).Delete(&models.Answer{}).Error; err != nil {
		return err
	}
	if err := db.Where("template_id = ?", id).Delete(&models.TemplateLike{}).Error; err != nil {
		return err
	}
	if err := db.Where("template_id = ?", id).Delete(&models.Form{}).Error; err != nil {
		return err
	}
	if err := db.Where("question_id IN (?)", questions).Delete(&models.Option{}).Error; err != nil {
		return err
	}
	if err := db.Where("template_id = ?", id).Delete(&models.Question{}).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM template_tags WHERE template_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Template{}, id)
	if result.Error != nil {
		configslog.Log.Error("TemplateRepository.DeleteCascade: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ ITemplateRepository = (*TemplateRepository)(nil)
