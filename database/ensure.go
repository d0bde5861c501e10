package database

import (
	"context"
	"database/sql"
	"fmt"

	"formify.app/configs/configslog"

	"github.com/lib/pq"
)

// EnsureDatabase creates name through the maintenance connection when it does not exist.
func EnsureDatabase(ctx context.Context, maintenanceDSN, name string) error {
	db, err := sql.Open("postgres", maintenanceDSN)
	if err != nil {
		return fmt.Errorf("open maintenance connection: %w", err)
	}
	defer db.Close()

	return ensureDatabase(ctx, db, name)
}

func ensureDatabase(ctx context.Context, db *sql.DB, name string) error {
	var exists bool
	if err := db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", name,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check database %q: %w", name, err)
	}
	if exists {
		configslog.SLog.Infof("Database %s already exists", name)
		return nil
	}

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return fmt.Errorf("create database %q: %w", name, err)
	}
	configslog.SLog.Infof("Database %s created", name)
	return nil
}
