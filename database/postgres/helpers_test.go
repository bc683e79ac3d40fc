package postgres_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"net"
	"sync"
	"testing"

	"github.com/AweWarno/cloud"
	"github.com/AweWarno/cloud/database/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testPool     *pgxpool.Pool
	testPoolOnce sync.Once
	testCleanup  func()
)

// getSharedTestDatabase returns a shared database pool for all tests.
// This significantly improves test performance by reusing the same container.
func getSharedTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testPoolOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}

		testCleanup = func() {
			if testPool != nil {
				testPool.Close()
			}
			if err := testcontainers.TerminateContainer(pgContainer); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		}

		connectionStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			testCleanup()
			t.Fatalf("failed to get connection string: %v", err)
		}

		pool, err := pgxpool.New(ctx, connectionStr)
		if err != nil {
			testCleanup()
			t.Fatalf("could not connect to database: %v", err)
		}

		testPool = pool
	})

	return testPool
}

// getIsolatedTestDatabase returns an isolated database pool for tests that need
// a clean database state. Each call creates a new container.
func getIsolatedTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := pgcontainer.Run(ctx,
		"postgres:18-alpine",
		pgcontainer.WithDatabase(getRandomString(t)),
		pgcontainer.WithUsername(getRandomString(t)),
		pgcontainer.WithPassword(getRandomString(t)),
		pgcontainer.BasicWaitStrategies(),
		testcontainers.WithExposedPorts(getOpenPort(t)),
	)
	assert.NoError(t, err, "failed to start postgres container")

	cleanup := func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	connectionStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		cleanup()
		assert.NoError(t, err, "failed to get connection string")
	}

	pool, err := pgxpool.New(ctx, connectionStr)
	if err != nil {
		cleanup()
		assert.NoError(t, err, "could not connect to database")
	}

	return pool, cleanup
}

// getRandomString generates a random string for unique test identifiers.
func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// getOpenPort finds an available port for test containers.
func getOpenPort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", ":0")
	assert.NoError(t, err, "could not find an open port")

	addr := l.Addr().String()

	err = l.Close()
	assert.NoError(t, err, "could not close port")

	_, port, err := net.SplitHostPort(addr)
	assert.NoError(t, err, "could not parse open port")

	return port
}

// dropTable drops the specified table for test cleanup.
func dropTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", quotedTable)
	_, err := pool.Exec(ctx, sql)
	return err
}

// dropTables drops a table trio in reverse dependency order.
func dropTables(ctx context.Context, pool *pgxpool.Pool, tables cloud.Tables) {
	_ = dropTable(ctx, pool, tables.Files)
	_ = dropTable(ctx, pool, tables.Sessions)
	_ = dropTable(ctx, pool, tables.Users)
}

// getDSN extracts the DSN from the pool config.
func getDSN(pool *pgxpool.Pool) string {
	return pool.Config().ConnString()
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

// setupTestDatabase creates a migrated database with unique table names on the
// shared container.
func setupTestDatabase(t *testing.T) (*postgres.Database, func()) {
	t.Helper()

	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	tables := getTestTables(t)

	db, err := postgres.Connect(ctx, getDSN(pool), tables)
	require.NoError(t, err, "failed to connect")

	err = db.Migrate(ctx)
	require.NoError(t, err, "failed to migrate")

	cleanup := func() {
		_ = db.Close()
		dropTables(ctx, pool, tables)
	}

	return db, cleanup
}

// createTestUser inserts a user and returns the stored row.
func createTestUser(t *testing.T, ctx context.Context, db *postgres.Database, login string) cloud.User {
	t.Helper()

	user, err := db.Users().Create(ctx, cloud.User{
		Login:        login,
		PasswordHash: "$2a$10$" + getRandomString(t),
	})
	require.NoError(t, err, "failed to create user %s", login)
	return user
}

// createTestFile inserts a file with content and returns the stored row.
func createTestFile(t *testing.T, ctx context.Context, db *postgres.Database, owner, filename string, data []byte) cloud.File {
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
