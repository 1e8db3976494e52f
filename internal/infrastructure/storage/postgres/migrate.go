package postgres

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"almox/pkg/logger"
)

// Migrate applies pending migrations from dir against the database at dsn.
func Migrate(ctx context.Context, dsn, dir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error(ctx, "close migration connection", "error", err)
		}
	}()

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info(ctx, "migrations applied", "dir", dir)
	return nil
}
