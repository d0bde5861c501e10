package configs

import (
	"sync"

	"formify.app/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
	dbErr  error
)

// InitDB opens the process-wide connection pool once. Later calls are no-ops.
func InitDB() error {
	dbOnce.Do(func() {
		gormLogger := configslog.NewGormLogger(configslog.Log)
		db, dbErr = gorm.Open(postgres.Open(Conf().Database.DSN()), &gorm.Config{
			Logger:         gormLogger,
			TranslateError: true,
		})
		if dbErr != nil {
			configslog.Log.Error("Failed to connect to database", zap.Error(dbErr))
			return
		}
		configslog.SLog.Info("Database connection established")
	})
	return dbErr
}

// GetDB returns the shared handle, opening it on first use.
func GetDB() *gorm.DB {
	if err := InitDB(); err != nil {
		configslog.Log.Fatal("Database is not available", zap.Error(err))
	}
	return db
}

// SetDB installs an already opened handle (sqlmock in tests).
func SetDB(handle *gorm.DB) {
	dbOnce.Do(func() {})
	db = handle
	dbErr = nil
}

// CloseDB closes the underlying pool.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Failed to get sql.DB for close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Failed to close database", zap.Error(err))
		return
	}
	configslog.SLog.Info("Database connection closed")
}
