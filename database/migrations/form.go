package migrations

import (
	"formify.app/configs/configslog"
	"formify.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateFormsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating forms & answers tables...")
	err := db.AutoMigrate(&models.Form{}, &models.Answer{})
	if err != nil {
		configslog.Log.Error("Failed to migrate forms & answers tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Forms & answers tables migrated successfully")
	return nil
}
