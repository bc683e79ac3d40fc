package sqlite_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/AweWarno/cloud"
	"github.com/AweWarno/cloud/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// getTestTables returns a unique table name trio for test isolation.
func getTestTables(t *testing.T) cloud.Tables {
	t.Helper()
	suffix := getRandomString(t)
	return cloud.Tables{
		Users:    fmt.Sprintf("users_%s", suffix),
		Sessions: fmt.Sprintf("sessions_%s", suffix),
		Files:    fmt.Sprintf("files_%s", suffix),
	}
}

// getTestDSN returns a file-backed DSN. An in-memory DSN would give every
// pooled connection its own empty database.
func getTestDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cloud.db")
}

// setupTestDatabase creates a migrated database with unique table names.
func setupTestDatabase(t *testing.T) (*sqlite.Database, func()) {
	t.Helper()

	ctx := context.Background()

	db, err := sqlite.Connect(ctx, getTestDSN(t), getTestTables(t))
	require.NoError(t, err, "failed to connect")

	err = db.Migrate(ctx)
	require.NoError(t, err, "failed to migrate")

	cleanup := func() {
		_ = db.Close()
	}

	return db, cleanup
}

// createTestUser inserts a user and returns the stored row.
func createTestUser(t *testing.T, ctx context.Context, db *sqlite.Database, login string) cloud.User {
	t.Helper()

	user, err := db.Users().Create(ctx, cloud.User{
		Login:        login,
		PasswordHash: "$2a$10$" + getRandomString(t),
	})
	require.NoError(t, err, "failed to create user %s", login)
	return user
}

// createTestFile inserts a file with content and returns the stored row.
func createTestFile(t *testing.T, ctx context.Context, db *sqlite.Database, owner, filename string, data []byte) cloud.File {
	t.Helper()

	file, err := db.Files().Create(ctx, cloud.File{
		Owner:    owner,
		Filename: filename,
		Size:     int64(len(data)),
		Hash:     cloud.HashContent(data),
		Data:     data,
	})
	require.NoError(t, err, "failed to create file %s", filename)
	return file
}
