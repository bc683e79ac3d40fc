package cloud

import (
	"context"

	"github.com/google/uuid"
)

// UserRepo defines the interface for user account persistence.
// Implementations must handle concurrent access safely.
//
// All methods accept a context for cancellation and timeout control.
type UserRepo interface {
	// Create stores a new user. The repository assigns ID and CreatedAt.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - user: User with login and password hash set
	//
	// Returns:
	//   - User: The stored user with ID and CreatedAt populated
	//   - error: Any database or constraint error (duplicate login included)
	Create(ctx context.Context, user User) (User, error)

	// GetByLogin retrieves a user by login. The lookup is case-insensitive.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - login: The login to look up
	//
	// Returns:
	//   - User: The user if found
	//   - error: ErrNotFound if no user has that login, or other database errors
	GetByLogin(ctx context.Context, login string) (User, error)
}

// SessionRepo defines the interface for session persistence. A user holds at
// most one session at a time; implementations enforce that with a uniqueness
// constraint on the user reference.
type SessionRepo interface {
	// Create stores a session. If the user already holds a session, the
	// existing one wins and is returned instead of the candidate. This keeps
	// concurrent logins from invalidating each other.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - session: Candidate session with token and user ID set
	//
	// Returns:
	//   - Session: The session actually in the store for that user
	//   - error: Any database error
	Create(ctx context.Context, session Session) (Session, error)

	// GetByUser retrieves the session held by a user.
	//
	// Returns:
	//   - Session: The session if one exists
	//   - error: ErrNotFound if the user holds no session, or other database errors
	GetByUser(ctx context.Context, userID uuid.UUID) (Session, error)

	// GetUserByToken resolves a token to the user holding it.
	//
	// Returns:
	//   - User: The session owner if the token is known
	//   - error: ErrNotFound if no session has that token, or other database errors
	GetUserByToken(ctx context.Context, token string) (User, error)

	// Delete removes a session by token.
	//
	// Returns:
	//   - error: ErrNotFound if no session has that token, or other database errors
	Delete(ctx context.Context, token string) error
}

// FileRepo defines the interface for file persistence. File content is stored
// in the row together with its metadata.
//
// Duplicate (owner, filename) pairs are allowed; name lookups resolve to the
// oldest matching row so repeated calls see the same file.
type FileRepo interface {
	// Create stores a new file with its content. The repository assigns ID
	// and timestamps.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - file: File with owner, filename, size, hash and data set
	//
	// Returns:
	//   - File: The stored file with ID and timestamps populated
	//   - error: Any database error
	Create(ctx context.Context, file File) (File, error)

	// GetByName retrieves the oldest file matching owner and filename,
	// content included.
	//
	// Returns:
	//   - File: The file if found
	//   - error: ErrNotFound if nothing matches, or other database errors
	GetByName(ctx context.Context, owner, filename string) (File, error)

	// ListByOwner retrieves the owner's files ordered by size ascending.
	// Content is not loaded; Data is nil on the returned entries.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - owner: Owner login to list for
	//   - limit: Maximum number of entries; zero or negative means no limit
	//
	// Returns:
	//   - []File: Matching files, smallest first; empty slice when none
	//   - error: Any database error
	ListByOwner(ctx context.Context, owner string, limit int) ([]File, error)

	// Rename changes the filename of the file with the given ID.
	//
	// Returns:
	//   - error: ErrNotFound if the ID is unknown, or other database errors
	Rename(ctx context.Context, id uuid.UUID, filename string) error

	// Delete removes the file with the given ID.
	//
	// Returns:
	//   - error: ErrNotFound if the ID is unknown, or other database errors
	Delete(ctx context.Context, id uuid.UUID) error
}
