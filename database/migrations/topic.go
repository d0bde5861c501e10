package migrations

import (
	"fmt"

	"formify.app/configs/configslog"
	"formify.app/models"

	"gorm.io/gorm"
)

func MigrateTopicsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating topics table...")
	if err := db.AutoMigrate(&models.Topic{}); err != nil {
		return fmt.Errorf("topics table could not be migrated: %w", err)
	}
	configslog.SLog.Info("Topics table migrated successfully")
	return nil
}
