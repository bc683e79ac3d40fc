// Package sqlite implements the storage interfaces using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AweWarno/cloud"
	"github.com/google/uuid"
)

type userRepo struct {
	db    *sql.DB
	table string
}

func (r *userRepo) Create(ctx context.Context, user cloud.User) (cloud.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, login, password_hash, created_at)
		VALUES (?, ?, ?, ?)`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		user.ID.String(), user.Login, user.PasswordHash, user.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return cloud.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *userRepo) GetByLogin(ctx context.Context, login string) (cloud.User, error) {
	// login is declared COLLATE NOCASE, so = is case-insensitive here.
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, login, password_hash, created_at
		FROM %s
		WHERE login = ?`, r.table)

	var u cloud.User
	var idStr, createdAt string

	err := r.db.QueryRowContext(ctx, query, login).Scan(&idStr, &u.Login, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cloud.User{}, cloud.ErrNotFound
		}
		return cloud.User{}, fmt.Errorf("get user by login: %w", err)
	}

	u.ID, err = uuid.Parse(idStr)
	if err != nil {
		return cloud.User{}, fmt.Errorf("get user by login: parse uuid: %w", err)
	}

	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return cloud.User{}, fmt.Errorf("get user by login: parse created_at: %w", err)
	}

	return u, nil
}

type sessionRepo struct {
	db         *sql.DB
	table      string
	usersTable string
}

func (r *sessionRepo) Create(ctx context.Context, session cloud.Session) (cloud.Session, error) {
	session.CreatedAt = time.Now().UTC()

	// DO NOTHING keeps the existing session when the user already holds one;
	// the read below returns whichever token is actually stored.
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (token, user_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		session.Token, session.UserID.String(), session.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return cloud.Session{}, fmt.Errorf("create session: %w", err)
	}

	return r.GetByUser(ctx, session.UserID)
}

func (r *sessionRepo) GetByUser(ctx context.Context, userID uuid.UUID) (cloud.Session, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT token, user_id, created_at
		FROM %s
		WHERE user_id = ?`, r.table)

	var s cloud.Session
	var userIDStr, createdAt string

	err := r.db.QueryRowContext(ctx, query, userID.String()).Scan(&s.Token, &userIDStr, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cloud.Session{}, cloud.ErrNotFound
		}
		return cloud.Session{}, fmt.Errorf("get session by user: %w", err)
	}

	s.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return cloud.Session{}, fmt.Errorf("get session by user: parse uuid: %w", err)
	}

	s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return cloud.Session{}, fmt.Errorf("get session by user: parse created_at: %w", err)
	}

	return s, nil
}

func (r *sessionRepo) GetUserByToken(ctx context.Context, token string) (cloud.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table names are validated
		`SELECT u.id, u.login, u.password_hash, u.created_at
		FROM %s s
		JOIN %s u ON u.id = s.user_id
		WHERE s.token = ?`, r.table, r.usersTable)

	var u cloud.User
	var idStr, createdAt string

	err := r.db.QueryRowContext(ctx, query, token).Scan(&idStr, &u.Login, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cloud.User{}, cloud.ErrNotFound
		}
		return cloud.User{}, fmt.Errorf("get user by token: %w", err)
	}

	u.ID, err = uuid.Parse(idStr)
	if err != nil {
		return cloud.User{}, fmt.Errorf("get user by token: parse uuid: %w", err)
	}

	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return cloud.User{}, fmt.Errorf("get user by token: parse created_at: %w", err)
	}

	return u, nil
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE token = ?`, r.table)

	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete session: %w", cloud.ErrNotFound)
	}

	return nil
}

type fileRepo struct {
	db    *sql.DB
	table string
}

func (r *fileRepo) Create(ctx context.Context, file cloud.File) (cloud.File, error) {
	file.ID = uuid.New()
	now := time.Now().UTC()
	file.CreatedAt = now
	file.UpdatedAt = now

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, owner, filename, file_size_bytes, hash, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		file.ID.String(), file.Owner, file.Filename, file.Size, file.Hash, file.Data,
		file.CreatedAt.Format(time.RFC3339Nano), file.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return cloud.File{}, fmt.Errorf("create file: %w", err)
	}

	return file, nil
}

func (r *fileRepo) GetByName(ctx context.Context, owner, filename string) (cloud.File, error) {
	// Oldest row wins so duplicate filenames resolve deterministically.
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, owner, filename, file_size_bytes, hash, data, created_at, updated_at
		FROM %s
		WHERE owner = ? AND filename = ?
		ORDER BY created_at, id
		LIMIT 1`, r.table)

	var f cloud.File
	var idStr, createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, owner, filename).Scan(
		&idStr, &f.Owner, &f.Filename, &f.Size, &f.Hash, &f.Data, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cloud.File{}, cloud.ErrNotFound
		}
		return cloud.File{}, fmt.Errorf("get file by name: %w", err)
	}

	f.ID, err = uuid.Parse(idStr)
	if err != nil {
		return cloud.File{}, fmt.Errorf("get file by name: parse uuid: %w", err)
	}

	f.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return cloud.File{}, fmt.Errorf("get file by name: parse created_at: %w", err)
	}

	f.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return cloud.File{}, fmt.Errorf("get file by name: parse updated_at: %w", err)
	}

	return f, nil
}

func (r *fileRepo) ListByOwner(ctx context.Context, owner string, limit int) ([]cloud.File, error) {
	// Content is left out of listings; only metadata columns are selected.
	var query string
	var args []any

	if limit > 0 {
		query = fmt.Sprintf(`
			SELECT id, owner, filename, file_size_bytes, hash, created_at, updated_at
			FROM %s
			WHERE owner = ?
			ORDER BY file_size_bytes, created_at
			LIMIT ?
		`, r.table)
		args = []any{owner, limit}
	} else {
		query = fmt.Sprintf(`
			SELECT id, owner, filename, file_size_bytes, hash, created_at, updated_at
			FROM %s
			WHERE owner = ?
			ORDER BY file_size_bytes, created_at
		`, r.table)
		args = []any{owner}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := make([]cloud.File, 0)
	for rows.Next() {
		var f cloud.File
		var idStr, createdAt, updatedAt string

		if scanErr := rows.Scan(&idStr, &f.Owner, &f.Filename, &f.Size, &f.Hash, &createdAt, &updatedAt); scanErr != nil {
			return nil, fmt.Errorf("list files: scan: %w", scanErr)
		}

		var parseErr error
		f.ID, parseErr = uuid.Parse(idStr)
		if parseErr != nil {
			return nil, fmt.Errorf("list files: parse uuid: %w", parseErr)
		}

		f.CreatedAt, parseErr = time.Parse(time.RFC3339Nano, createdAt)
		if parseErr != nil {
			return nil, fmt.Errorf("list files: parse created_at: %w", parseErr)
		}

		f.UpdatedAt, parseErr = time.Parse(time.RFC3339Nano, updatedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("list files: parse updated_at: %w", parseErr)
		}

		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: rows: %w", err)
	}

	return files, nil
}

func (r *fileRepo) Rename(ctx context.Context, id uuid.UUID, filename string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET filename = ?, updated_at = ?
		WHERE id = ?`, r.table)

	result, err := r.db.ExecContext(ctx, query, filename, now, id.String())
	if err != nil {
		return fmt.Errorf("rename file: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename file: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("rename file: %w", cloud.ErrNotFound)
	}

	return nil
}

func (r *fileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE id = ?`, r.table)

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete file: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete file: %w", cloud.ErrNotFound)
	}

	return nil
}
