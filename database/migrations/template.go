package migrations

import (
	"formify.app/configs/configslog"
	"formify.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateTemplatesTables creates templates with their questions, options, tags and likes.
// The template_tags join table comes from the many2many declaration.
func MigrateTemplatesTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating templates, questions, options, tags & likes tables...")
	err := db.AutoMigrate(
		&models.Template{},
		&models.Question{},
		&models.Option{},
		&models.Tag{},
		&models.TemplateLike{},
	)
	if err != nil {
		configslog.Log.Error("Failed to migrate template tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Template tables migrated successfully")
	return nil
}
