// Package database wires storage backends behind a single Connect call.
package database

import (
	"context"
	"fmt"

	"github.com/AweWarno/cloud"
	"github.com/AweWarno/cloud/database/postgres"
	"github.com/AweWarno/cloud/database/sqlite"
)

// Config holds the configuration for connecting to a storage backend.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string
	// DSN is the data source name (connection string)
	DSN string
	// Tables holds the table names to use
	Tables cloud.Tables
}

// Repos bundles the repositories a backend provides.
type Repos struct {
	Users    cloud.UserRepo
	Sessions cloud.SessionRepo
	Files    cloud.FileRepo
}

// Connect establishes a connection to the configured database backend,
// runs migrations, validates the schema, and returns the repositories.
// The returned cleanup function should be called to close the connection.
func Connect(ctx context.Context, cfg Config) (Repos, func(), error) {
	if err := cfg.Tables.Validate(); err != nil {
		return Repos{}, nil, err
	}

	switch cfg.Type {
	case "sqlite":
		return connectSQLite(ctx, cfg.DSN, cfg.Tables)
	case "postgres":
		return connectPostgres(ctx, cfg.DSN, cfg.Tables)
	default:
		return Repos{}, nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func connectSQLite(ctx context.Context, dsn string, tables cloud.Tables) (Repos, func(), error) {
	db, err := sqlite.Connect(ctx, dsn, tables)
	if err != nil {
		return Repos{}, nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return Repos{}, nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return Repos{}, nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	if err = db.Validate(ctx); err != nil {
		_ = db.Close()
		return Repos{}, nil, fmt.Errorf("validate sqlite schema: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return Repos{Users: db.Users(), Sessions: db.Sessions(), Files: db.Files()}, cleanup, nil
}

func connectPostgres(ctx context.Context, dsn string, tables cloud.Tables) (Repos, func(), error) {
	db, err := postgres.Connect(ctx, dsn, tables)
	if err != nil {
		return Repos{}, nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return Repos{}, nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return Repos{}, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	if err = db.Validate(ctx); err != nil {
		_ = db.Close()
		return Repos{}, nil, fmt.Errorf("validate postgres schema: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return Repos{Users: db.Users(), Sessions: db.Sessions(), Files: db.Files()}, cleanup, nil
}
