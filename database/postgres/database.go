package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AweWarno/cloud"
)

// Database provides PostgreSQL-backed storage for users, sessions and files.
type Database struct {
	pool   *pgxpool.Pool
	tables cloud.Tables
}

// Connect establishes a connection pool to PostgreSQL.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables cloud.Tables) (*Database, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &Database{
		pool:   pool,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *Database) Migrate(ctx context.Context) error {
	return Migrate(ctx, d.pool, d.tables)
}

// Validate checks that the database schema matches the expected structure.
func (d *Database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.pool, d.tables)
}

// Users returns the UserRepo backed by this database.
func (d *Database) Users() cloud.UserRepo {
	return &userRepo{pool: d.pool, table: d.tables.Users}
}

// Sessions returns the SessionRepo backed by this database.
func (d *Database) Sessions() cloud.SessionRepo {
	return &sessionRepo{pool: d.pool, table: d.tables.Sessions, usersTable: d.tables.Users}
}

// Files returns the FileRepo backed by this database.
func (d *Database) Files() cloud.FileRepo {
	return &fileRepo{pool: d.pool, table: d.tables.Files}
}

// Close closes the database connection pool.
func (d *Database) Close() error {
	d.pool.Close()
	return nil
}
