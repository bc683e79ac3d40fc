package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AweWarno/cloud"
)

func createUsersTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexLoginLower := pgx.Identifier{fmt.Sprintf("idx_%s_login_lower", tableName)}.Sanitize()

	// The unique index on lower(login) makes logins unique ignoring case.
	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			login TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS %s
		ON %s (LOWER(login));
	`,
		quotedTable,
		indexLoginLower, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func createSessionsTable(ctx context.Context, pool *pgxpool.Pool, tableName, usersTableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	quotedUsersTable := pgx.Identifier{usersTableName}.Sanitize()

	// user_id is UNIQUE: a user holds at most one session.
	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			token TEXT PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE REFERENCES %s (id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`,
		quotedTable, quotedUsersTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func createFilesTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexOwnerName := pgx.Identifier{fmt.Sprintf("idx_%s_owner_name", tableName)}.Sanitize()
	indexOwnerSize := pgx.Identifier{fmt.Sprintf("idx_%s_owner_size", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			owner TEXT NOT NULL,
			filename TEXT NOT NULL,
			file_size_bytes BIGINT NOT NULL,
			hash TEXT NOT NULL,
			data BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (owner, filename, created_at);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (owner, file_size_bytes);
	`,
		quotedTable,
		indexOwnerName, quotedTable,
		indexOwnerSize, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create files table: %w", err)
	}
	return nil
}

// Migrate creates all required tables. Users come first because sessions
// reference them.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables cloud.Tables) error {
	if err := createUsersTable(ctx, pool, tables.Users); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := createSessionsTable(ctx, pool, tables.Sessions, tables.Users); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := createFilesTable(ctx, pool, tables.Files); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
