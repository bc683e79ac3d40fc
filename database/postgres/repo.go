// Package postgres implements the storage interfaces using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AweWarno/cloud"
)

type userRepo struct {
	pool  *pgxpool.Pool
	table string
}

func (r *userRepo) Create(ctx context.Context, user cloud.User) (cloud.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (login, password_hash)
		VALUES ($1, $2)
		RETURNING id, login, password_hash, created_at
	`, r.table)

	var u cloud.User
	err := r.pool.QueryRow(ctx, query, user.Login, user.PasswordHash).Scan(
		&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		return cloud.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *userRepo) GetByLogin(ctx context.Context, login string) (cloud.User, error) {
	query := fmt.Sprintf(`
		SELECT id, login, password_hash, created_at
		FROM %s
		WHERE LOWER(login) = LOWER($1)
	`, r.table)

	var u cloud.User
	err := r.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cloud.User{}, cloud.ErrNotFound
		}
		return cloud.User{}, fmt.Errorf("get user by login: %w", err)
	}

	return u, nil
}

type sessionRepo struct {
	pool       *pgxpool.Pool
	table      string
	usersTable string
}

func (r *sessionRepo) Create(ctx context.Context, session cloud.Session) (cloud.Session, error) {
	// DO NOTHING keeps the existing session when the user already holds one.
	// In that case no row comes back and the stored session is read instead.
	query := fmt.Sprintf(`
		INSERT INTO %s (token, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING token, user_id, created_at
	`, r.table)

	var s cloud.Session
	err := r.pool.QueryRow(ctx, query, session.Token, session.UserID).Scan(&s.Token, &s.UserID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetByUser(ctx, session.UserID)
		}
		return cloud.Session{}, fmt.Errorf("create session: %w", err)
	}

	return s, nil
}

func (r *sessionRepo) GetByUser(ctx context.Context, userID uuid.UUID) (cloud.Session, error) {
	query := fmt.Sprintf(`
		SELECT token, user_id, created_at
		FROM %s
		WHERE user_id = $1
	`, r.table)

	var s cloud.Session
	err := r.pool.QueryRow(ctx, query, userID).Scan(&s.Token, &s.UserID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cloud.Session{}, cloud.ErrNotFound
		}
		return cloud.Session{}, fmt.Errorf("get session by user: %w", err)
	}

	return s, nil
}

func (r *sessionRepo) GetUserByToken(ctx context.Context, token string) (cloud.User, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.login, u.password_hash, u.created_at
		FROM %s s
		JOIN %s u ON u.id = s.user_id
		WHERE s.token = $1
	`, r.table, r.usersTable)

	var u cloud.User
	err := r.pool.QueryRow(ctx, query, token).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cloud.User{}, cloud.ErrNotFound
		}
		return cloud.User{}, fmt.Errorf("get user by token: %w", err)
	}

	return u, nil
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE token = $1
	`, r.table)

	result, err := r.pool.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete session: %w", cloud.ErrNotFound)
	}

	return nil
}

type fileRepo struct {
	pool  *pgxpool.Pool
	table string
}

func (r *fileRepo) Create(ctx context.Context, file cloud.File) (cloud.File, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner, filename, file_size_bytes, hash, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner, filename, file_size_bytes, hash, created_at, updated_at
	`, r.table)

	var f cloud.File
	err := r.pool.QueryRow(ctx, query, file.Owner, file.Filename, file.Size, file.Hash, file.Data).Scan(
		&f.ID, &f.Owner, &f.Filename, &f.Size, &f.Hash, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return cloud.File{}, fmt.Errorf("create file: %w", err)
	}

	f.Data = file.Data
	return f, nil
}

func (r *fileRepo) GetByName(ctx context.Context, owner, filename string) (cloud.File, error) {
	// Oldest row wins so duplicate filenames resolve deterministically.
	query := fmt.Sprintf(`
		SELECT id, owner, filename, file_size_bytes, hash, data, created_at, updated_at
		FROM %s
		WHERE owner = $1 AND filename = $2
		ORDER BY created_at, id
		LIMIT 1
	`, r.table)

	var f cloud.File
	err := r.pool.QueryRow(ctx, query, owner, filename).Scan(
		&f.ID, &f.Owner, &f.Filename, &f.Size, &f.Hash, &f.Data, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cloud.File{}, cloud.ErrNotFound
		}
		return cloud.File{}, fmt.Errorf("get file by name: %w", err)
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
			WHERE owner = $1
			ORDER BY file_size_bytes, created_at
			LIMIT $2
		`, r.table)
		args = []any{owner, limit}
	} else {
		query = fmt.Sprintf(`
			SELECT id, owner, filename, file_size_bytes, hash, created_at, updated_at
			FROM %s
			WHERE owner = $1
			ORDER BY file_size_bytes, created_at
		`, r.table)
		args = []any{owner}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := make([]cloud.File, 0)
	for rows.Next() {
		var f cloud.File
		if scanErr := rows.Scan(&f.ID, &f.Owner, &f.Filename, &f.Size, &f.Hash, &f.CreatedAt, &f.UpdatedAt); scanErr != nil {
			return nil, fmt.Errorf("list files: scan: %w", scanErr)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: rows: %w", err)
	}

	return files, nil
}

func (r *fileRepo) Rename(ctx context.Context, id uuid.UUID, filename string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET filename = $1, updated_at = NOW()
		WHERE id = $2
	`, r.table)

	result, err := r.pool.Exec(ctx, query, filename, id)
	if err != nil {
		return fmt.Errorf("rename file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("rename file: %w", cloud.ErrNotFound)
	}

	return nil
}

func (r *fileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.table)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete file: %w", cloud.ErrNotFound)
	}

	return nil
}
