package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AweWarno/cloud/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Load with no config files should use defaults
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, int64(100<<20), cfg.Server.MaxUploadSize)
	assert.Equal(t, 30, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "cloud.db", cfg.Database.DSN)
	assert.Equal(t, "users", cfg.Database.Tables.Users)
	assert.Equal(t, "sessions", cfg.Database.Tables.Sessions)
	assert.Equal(t, "files", cfg.Database.Tables.Files)
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.CORS.AllowedMethods, "POST")
	assert.Contains(t, cfg.CORS.AllowedHeaders, "auth-token")
	assert.True(t, cfg.CORS.AllowCredentials)
	assert.Equal(t, 300, cfg.CORS.MaxAge)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Seed.Users)
}

func TestLoad_ConfigFile(t *testing.T) {
	configPath := writeConfigFile(t, `
server:
  port: 9000
  max_upload_size: 1048576
  shutdown_timeout: 5
database:
  type: postgres
  dsn: postgres://localhost/test
  tables:
    users: cloud_users
    sessions: cloud_sessions
    files: cloud_files
cors:
  enabled: false
log:
  level: debug
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, int64(1048576), cfg.Server.MaxUploadSize)
	assert.Equal(t, 5, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.DSN)
	assert.Equal(t, "cloud_users", cfg.Database.Tables.Users)
	assert.Equal(t, "cloud_sessions", cfg.Database.Tables.Sessions)
	assert.Equal(t, "cloud_files", cfg.Database.Tables.Files)
	assert.False(t, cfg.CORS.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	basePath := writeConfigFile(t, `
server:
  port: 9000
database:
  type: postgres
  dsn: postgres://base
log:
  level: info
`)
	overridePath := writeConfigFile(t, `
database:
  dsn: postgres://override
log:
  level: warn
`)

	// Load with merge (later files override earlier)
	cfg, err := config.Load([]string{basePath, overridePath}, nil)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "postgres://override", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)

	// Preserved values from base
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
}

func TestLoad_FlagOverrides(t *testing.T) {
	configPath := writeConfigFile(t, `
server:
  port: 9000
database:
  type: postgres
  dsn: postgres://file
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("db-type", "", "")
	flags.String("db-dsn", "", "")
	require.NoError(t, flags.Parse([]string{"--port=7000", "--db-type=sqlite", "--db-dsn=flag.db"}))

	cfg, err := config.Load([]string{configPath}, flags)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "flag.db", cfg.Database.DSN)
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 1234, "")
	require.NoError(t, flags.Parse(nil))

	// A flag that was never set on the command line must not shadow the
	// configuration default with its own flag default.
	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoad_ValidationError_InvalidPort(t *testing.T) {
	configPath := writeConfigFile(t, `
server:
  port: 99999
`)

	_, err := config.Load([]string{configPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoad_ValidationError_InvalidLogLevel(t *testing.T) {
	configPath := writeConfigFile(t, `
log:
  level: verbose
`)

	_, err := config.Load([]string{configPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoad_ValidationError_SeedUserWithoutPassword(t *testing.T) {
	configPath := writeConfigFile(t, `
seed:
  users:
    - login: testuser
`)

	_, err := config.Load([]string{configPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoad_WithSeedUsers(t *testing.T) {
	configPath := writeConfigFile(t, `
seed:
  users:
    - login: testuser
      password: password
    - login: admin
      password: hunter2
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	require.Len(t, cfg.Seed.Users, 2)
	assert.Equal(t, "testuser", cfg.Seed.Users[0].Login)
	assert.Equal(t, "password", cfg.Seed.Users[0].Password)
	assert.Equal(t, "admin", cfg.Seed.Users[1].Login)
	assert.Equal(t, "hunter2", cfg.Seed.Users[1].Password)
}

func TestLoad_WithCORS(t *testing.T) {
	configPath := writeConfigFile(t, `
cors:
  enabled: true
  allowed_origins:
    - https://example.com
    - https://app.example.com
  allowed_methods:
    - GET
    - PUT
  allowed_headers:
    - Content-Type
  allow_credentials: false
  max_age: 600
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://example.com", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "PUT"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, []string{"Content-Type"}, cfg.CORS.AllowedHeaders)
	assert.False(t, cfg.CORS.AllowCredentials)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Set environment variables
	t.Setenv("CLOUD_SERVER_PORT", "9090")
	t.Setenv("CLOUD_DATABASE_TYPE", "postgres")
	t.Setenv("CLOUD_LOG_LEVEL", "error")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestWithContext(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Port = 4242

	ctx := config.WithContext(context.Background(), cfg)

	got, err := config.FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4242, got.Server.Port)
}

func TestFromContext_Missing(t *testing.T) {
	_, err := config.FromContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config not found")
}
