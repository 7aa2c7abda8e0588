package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_initial.up.sql
var initialMigrationSQL string

//go:embed migrations/002_oauth_identity.up.sql
var oauthIdentitySQL string

var requiredTables = []string{
	"users",
	"user_progress",
	"videos",
	"albums",
	"photos",
}

func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if !exists {
		slog.Info("database schema missing tables; applying initial migration")
		if _, err := db.Pool.Exec(ctx, initialMigrationSQL); err != nil {
			return fmt.Errorf("apply initial migration: %w", err)
		}

		exists, err = db.hasAllRequiredTables(ctx)
		if err != nil {
			return fmt.Errorf("re-check tables after migration: %w", err)
		}

		if !exists {
			return fmt.Errorf("schema initialization incomplete: required tables are still missing")
		}
	}

	// 002: external-identity columns (add if missing).
	if err := db.applyOAuthIdentity(ctx); err != nil {
		return fmt.Errorf("apply oauth identity migration: %w", err)
	}

	slog.Info("database schema ensured")
	return nil
}

// applyOAuthIdentity runs migration 002 idempotently.
// The SQL uses IF NOT EXISTS so it is safe to re-run.
func (db *DB) applyOAuthIdentity(ctx context.Context) error {
	var hasColumn bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = 'public'
			  AND table_name = 'users'
			  AND column_name = 'oauth_provider'
		)
	`).Scan(&hasColumn)
	if err != nil {
		return fmt.Errorf("check oauth_provider column: %w", err)
	}

	if !hasColumn {
		slog.Info("applying oauth identity migration (002)")
		if _, err := db.Pool.Exec(ctx, oauthIdentitySQL); err != nil {
			return fmt.Errorf("exec oauth identity SQL: %w", err)
		}
		slog.Info("oauth identity migration applied")
	}

	return nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(requiredTables), nil
}
