package cloud

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in and own files.
// PasswordHash holds a bcrypt hash, never the plaintext password.
type User struct {
	ID           uuid.UUID `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session binds an opaque token to a user. A user holds at most one session.
type Session struct {
	Token     string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// File is a stored file with its content and metadata. Owner is the login of
// the user the file belongs to. Hash is the hex SHA-256 digest of Data.
//
// The same owner may hold several files with the same filename; lookups by
// name resolve to the oldest match.
type File struct {
	ID        uuid.UUID `json:"id"`
	Owner     string    `json:"owner"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Hash      string    `json:"hash"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileSummary is the listing projection of a file.
type FileSummary struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Tables holds configurable table names for storage.
// This allows multi-tenant deployments to use different table names.
type Tables struct {
	Users    string `mapstructure:"users"`
	Sessions string `mapstructure:"sessions"`
	Files    string `mapstructure:"files"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	for _, tbl := range []struct {
		role string
		name string
	}{
		{"users", t.Users},
		{"sessions", t.Sessions},
		{"files", t.Files},
	} {
		if tbl.name == "" {
			return fmt.Errorf("validate tables: %s table name cannot be empty", tbl.role)
		}
		if !IsValidTableName(tbl.name) {
			return fmt.Errorf("validate tables: invalid %s table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", tbl.role, tbl.name)
		}
	}
	return nil
}
