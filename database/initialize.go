package database

import (
	"context"
	"errors"
	"fmt"

	"formify.app/configs/configslog"
	"formify.app/database/migrations"
	"formify.app/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options selects the steps Initialize runs.
type Options struct {
	Migrate bool
	Seed    bool
	// Admin is seeded when its email and password are set. Demo templates are
	// owned by it.
	Admin seeders.AdminAccount
	Demo  bool
}

// Initialize runs the selected migration and seed steps in one transaction.
func Initialize(ctx context.Context, db *gorm.DB, opts Options) error {
	if !opts.Migrate && !opts.Seed {
		configslog.SLog.Info("Neither migrate nor seed requested, nothing to do")
		return nil
	}

	configslog.SLog.Info("Database initialization starting...")
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Migrate {
			if err := RunMigrationsInOrder(tx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		} else {
			configslog.SLog.Info("Migrate not requested, skipping migrations")
		}

		if opts.Seed {
			if err := RunSeeders(ctx, tx, opts); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
		} else {
			configslog.SLog.Info("Seed not requested, skipping seeders")
		}
		return nil
	})
	if err != nil {
		configslog.Log.Error("Database initialization rolled back", zap.Error(err))
		return err
	}

	configslog.SLog.Info("Database initialization completed")
	return nil
}

func RunMigrationsInOrder(db *gorm.DB) error {
	steps := []struct {
		name string
		run  func(*gorm.DB) error
	}{
		{"users", migrations.MigrateUsersTable},
		{"topics", migrations.MigrateTopicsTable},
		{"templates", migrations.MigrateTemplatesTables},
		{"forms", migrations.MigrateFormsTables},
	}
	for _, step := range steps {
		configslog.SLog.Infof(" -> Running %s migrations...", step.name)
		if err := step.run(db); err != nil {
			configslog.Log.Error("Migration step failed", zap.String("step", step.name), zap.Error(err))
			return err
		}
	}
	configslog.SLog.Info("All migrations ran successfully")
	return nil
}

func RunSeeders(ctx context.Context, db *gorm.DB, opts Options) error {
	if err := seeders.SeedTopics(ctx, db); err != nil {
		return err
	}

	if opts.Admin.Email == "" || opts.Admin.Password == "" {
		if opts.Demo {
			return errors.New("demo templates need an admin account (--admin-email, --admin-password)")
		}
		configslog.SLog.Info("No admin credentials given, skipping admin seeder")
		return nil
	}
	admin, err := seeders.SeedAdmin(ctx, db, opts.Admin)
	if err != nil {
		return err
	}

	if opts.Demo {
		return seeders.SeedDemoTemplates(ctx, db, admin)
	}
	return nil
}
