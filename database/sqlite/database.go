package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AweWarno/cloud"

	_ "modernc.org/sqlite" // SQLite driver
)

// Database provides SQLite-backed storage for users, sessions and files.
type Database struct {
	db     *sql.DB
	tables cloud.Tables
}

// Connect opens a SQLite database.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables cloud.Tables) (*Database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	return &Database{
		db:     db,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *Database) Migrate(ctx context.Context) error {
	return Migrate(ctx, d.db, d.tables)
}

// Validate checks that the database schema matches the expected structure.
func (d *Database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.tables)
}

// DropTables removes all managed tables. Used by tests.
func (d *Database) DropTables(ctx context.Context) error {
	return DropTables(ctx, d.db, d.tables)
}

// Users returns the UserRepo backed by this database.
func (d *Database) Users() cloud.UserRepo {
	return &userRepo{db: d.db, table: d.tables.Users}
}

// Sessions returns the SessionRepo backed by this database.
func (d *Database) Sessions() cloud.SessionRepo {
	return &sessionRepo{db: d.db, table: d.tables.Sessions, usersTable: d.tables.Users}
}

// Files returns the FileRepo backed by this database.
func (d *Database) Files() cloud.FileRepo {
	return &fileRepo{db: d.db, table: d.tables.Files}
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}
