package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/AweWarno/cloud"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and created_at", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		user, err := db.Users().Create(ctx, cloud.User{
			Login:        "alice",
			PasswordHash: "hash",
		})
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "alice", user.Login)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects duplicate login", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		createTestUser(t, ctx, db, "alice")

		_, err := db.Users().Create(ctx, cloud.User{Login: "alice", PasswordHash: "other"})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate login with different case", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		createTestUser(t, ctx, db, "alice")

		_, err := db.Users().Create(ctx, cloud.User{Login: "Alice", PasswordHash: "other"})
		assert.Error(t, err)
	})
}

func TestUserRepo_GetByLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored user", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		created := createTestUser(t, ctx, db, "alice")

		got, err := db.Users().GetByLogin(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.PasswordHash, got.PasswordHash)
	})

	t.Run("matches login case-insensitively", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		created := createTestUser(t, ctx, db, "Alice")

		got, err := db.Users().GetByLogin(ctx, "ALICE")
		assert.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Alice", got.Login, "stored spelling is preserved")
	})

	t.Run("returns ErrNotFound for unknown login", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		_, err := db.Users().GetByLogin(ctx, "nobody")
		assert.ErrorIs(t, err, cloud.ErrNotFound)
	})
}

func TestSessionRepo_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a new session", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		user := createTestUser(t, ctx, db, "alice")

		session, err := db.Sessions().Create(ctx, cloud.Session{
			Token:  "token-one",
			UserID: user.ID,
		})
		assert.NoError(t, err)
		assert.Equal(t, "token-one", session.Token)
		assert.Equal(t, user.ID, session.UserID)
		assert.False(t, session.CreatedAt.IsZero())
	})

	t.Run("keeps the existing session for the same user", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		user := createTestUser(t, ctx, db, "alice")

		first, err := db.Sessions().Create(ctx, cloud.Session{Token: "token-one", UserID: user.ID})
		require.NoError(t, err)

		second, err := db.Sessions().Create(ctx, cloud.Session{Token: "token-two", UserID: user.ID})
		assert.NoError(t, err)
		assert.Equal(t, first.Token, second.Token, "the stored token wins")
	})
}

func TestSessionRepo_GetByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user's session", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		alice := createTestUser(t, ctx, db, "alice")
		bob := createTestUser(t, ctx, db, "bob")

		_, err := db.Sessions().Create(ctx, cloud.Session{Token: "token-alice", UserID: alice.ID})
		require.NoError(t, err)
		_, err = db.Sessions().Create(ctx, cloud.Session{Token: "token-bob", UserID: bob.ID})
		require.NoError(t, err)

		got, err := db.Sessions().GetByUser(ctx, bob.ID)
		assert.NoError(t, err)
		assert.Equal(t, "token-bob", got.Token)
	})

	t.Run("returns ErrNotFound when the user has no session", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		user := createTestUser(t, ctx, db, "alice")

		_, err := db.Sessions().GetByUser(ctx, user.ID)
		assert.ErrorIs(t, err, cloud.ErrNotFound)
	})
}

func TestSessionRepo_GetUserByToken(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the session owner", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		user := createTestUser(t, ctx, db, "alice")
		_, err := db.Sessions().Create(ctx, cloud.Session{Token: "token-one", UserID: user.ID})
		require.NoError(t, err)

		got, err := db.Sessions().GetUserByToken(ctx, "token-one")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "alice", got.Login)
	})

	t.Run("returns ErrNotFound for unknown token", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		_, err := db.Sessions().GetUserByToken(ctx, "missing")
		assert.ErrorIs(t, err, cloud.ErrNotFound)
	})
}

func TestSessionRepo_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the session", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		user := createTestUser(t, ctx, db, "alice")
		_, err := db.Sessions().Create(ctx, cloud.Session{Token: "token-one", UserID: user.ID})
		require.NoError(t, err)

		err = db.Sessions().Delete(ctx, "token-one")
		assert.NoError(t, err)

		_, err = db.Sessions().GetByUser(ctx, user.ID)
		assert.ErrorIs(t, err, cloud.ErrNotFound)
	})

	t.Run("returns ErrNotFound for unknown token", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		err := db.Sessions().Delete(ctx, "missing")
		assert.ErrorIs(t, err, cloud.ErrNotFound)
	})
}

func TestFileRepo_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		data := []byte("hello")
		file, err := db.Files().Create(ctx, cloud.File{
			Owner:    "alice",
			Filename: "test.txt",
			Size:     int64(len(data)),
			Hash:     cloud.HashContent(data),
			Data:     data,
		})
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, file.ID)
		assert.False(t, file.CreatedAt.IsZero())
		assert.False(t, file.UpdatedAt.IsZero())
		assert.Equal(t, data, file.Data, "content is preserved on the returned row")
	})

	t.Run("allows duplicate filenames for the same owner", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		first := createTestFile(t, ctx, db, "alice", "test.txt", []byte("one"))
		second := createTestFile(t, ctx, db, "alice", "test.txt", []byte("two"))
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestFileRepo_GetByName(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips content", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		data := []byte("hello world")
		created := createTestFile(t, ctx, db, "alice", "test.txt", data)

		got, err := db.Files().GetByName(ctx, "alice", "test.txt")
		assert.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, data, got.Data)
		assert.Equal(t, int64(len(data)), got.Size)
		assert.Equal(t, cloud.HashContent(data), got.Hash)
	})

	t.Run("oldest row wins among duplicates", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		first := createTestFile(t, ctx, db, "alice", "test.txt", []byte("one"))
		time.Sleep(2 * time.Millisecond)
		createTestFile(t, ctx, db, "alice", "test.txt", []byte("two"))

		got, err := db.Files().GetByName(ctx, "alice", "test.txt")
		assert.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, []byte("one"), got.Data)
	})

	t.Run("scoped to owner", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		createTestFile(t, ctx, db, "alice", "test.txt", []byte("one"))

		_, err := db.Files().GetByName(ctx, "bob", "test.txt")
		assert.ErrorIs(t, err, cloud.ErrNotFound)
	})
}

func TestFileRepo_ListByOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by size ascending", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		createTestFile(t, ctx, db, "alice", "big.txt", []byte("aaaaaaaaaa"))
		createTestFile(t, ctx, db, "alice", "small.txt", []byte("a"))
		createTestFile(t, ctx, db, "alice", "medium.txt", []byte("aaaaa"))

		files, err := db.Files().ListByOwner(ctx, "alice", 0)
		assert.NoError(t, err)
		require.Len(t, files, 3)
		assert.Equal(t, "small.txt", files[0].Filename)
		assert.Equal(t, "medium.txt", files[1].Filename)
		assert.Equal(t, "big.txt", files[2].Filename)
	})

	t.Run("positive limit truncates", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		createTestFile(t, ctx, db, "alice", "big.txt", []byte("aaaaaaaaaa"))
		createTestFile(t, ctx, db, "alice", "small.txt", []byte("a"))

		files, err := db.Files().ListByOwner(ctx, "alice", 1)
		assert.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "small.txt", files[0].Filename)
	})

	t.Run("non-positive limit returns everything", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
			createTestFile(t, ctx, db, "alice", name, []byte(name))
		}

		files, err := db.Files().ListByOwner(ctx, "alice", 0)
		assert.NoError(t, err)
		assert.Len(t, files, 3)
	})

	t.Run("excludes other owners", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		createTestFile(t, ctx, db, "alice", "mine.txt", []byte("one"))
		createTestFile(t, ctx, db, "bob", "theirs.txt", []byte("two"))

		files, err := db.Files().ListByOwner(ctx, "alice", 0)
		assert.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "mine.txt", files[0].Filename)
	})

	t.Run("does not load content", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		createTestFile(t, ctx, db, "alice", "test.txt", []byte("hello"))

		files, err := db.Files().ListByOwner(ctx, "alice", 0)
		assert.NoError(t, err)
		require.Len(t, files, 1)
		assert.Nil(t, files[0].Data)
		assert.Equal(t, int64(5), files[0].Size)
	})

	t.Run("returns empty slice for owner with no files", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		files, err := db.Files().ListByOwner(ctx, "alice", 0)
		assert.NoError(t, err)
		assert.NotNil(t, files)
		assert.Empty(t, files)
	})
}

func TestFileRepo_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("changes the filename", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		created := createTestFile(t, ctx, db, "alice", "old.txt", []byte("hello"))

		err := db.Files().Rename(ctx, created.ID, "new.txt")
		assert.NoError(t, err)

		_, err = db.Files().GetByName(ctx, "alice", "old.txt")
		assert.ErrorIs(t, err, cloud.ErrNotFound)

		got, err := db.Files().GetByName(ctx, "alice", "new.txt")
		assert.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, []byte("hello"), got.Data)
	})

	t.Run("bumps updated_at", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		created := createTestFile(t, ctx, db, "alice", "old.txt", []byte("hello"))

		time.Sleep(2 * time.Millisecond)
		err := db.Files().Rename(ctx, created.ID, "new.txt")
		require.NoError(t, err)

		got, err := db.Files().GetByName(ctx, "alice", "new.txt")
		assert.NoError(t, err)
		assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("returns ErrNotFound for unknown id", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		err := db.Files().Rename(ctx, uuid.New(), "new.txt")
		assert.ErrorIs(t, err, cloud.ErrNotFound)
	})
}

func TestFileRepo_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the file", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		created := createTestFile(t, ctx, db, "alice", "test.txt", []byte("hello"))

		err := db.Files().Delete(ctx, created.ID)
		assert.NoError(t, err)

		_, err = db.Files().GetByName(ctx, "alice", "test.txt")
		assert.ErrorIs(t, err, cloud.ErrNotFound)
	})

	t.Run("removes only the matched row", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		first := createTestFile(t, ctx, db, "alice", "test.txt", []byte("one"))
		time.Sleep(2 * time.Millisecond)
		createTestFile(t, ctx, db, "alice", "test.txt", []byte("two"))

		err := db.Files().Delete(ctx, first.ID)
		assert.NoError(t, err)

		got, err := db.Files().GetByName(ctx, "alice", "test.txt")
		assert.NoError(t, err)
		assert.Equal(t, []byte("two"), got.Data)
	})

	t.Run("returns ErrNotFound for unknown id", func(t *testing.T) {
		db, cleanup := setupTestDatabase(t)
		defer cleanup()

		err := db.Files().Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, cloud.ErrNotFound)
	})
}
