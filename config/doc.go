// Package config provides configuration loading and validation for the cloud server.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (CLOUD_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with CLOUD_ prefix:
//   - server.port → CLOUD_SERVER_PORT
//   - database.type → CLOUD_DATABASE_TYPE
//   - log.level → CLOUD_LOG_LEVEL
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port, max_upload_size, and shutdown_timeout
//   - Database: type, DSN, and table names
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//   - Seed: user accounts created at startup
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Log level must be debug, info, warn, or error
//   - Seed users must carry both a login and a password
//
// The database type is checked when the connection is opened, not here.
package config
