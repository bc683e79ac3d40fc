package cloud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AuthService manages accounts and sessions: login, logout and resolving
// session tokens back to users.
type AuthService struct {
	users    UserRepo
	sessions SessionRepo
}

func NewAuthService(users UserRepo, sessions SessionRepo) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// cleanToken strips the optional "Bearer " prefix clients send in the
// auth-token header.
func cleanToken(token string) string {
	return strings.TrimPrefix(token, "Bearer ")
}

// CreateUser provisions a new account with a hashed password. Logins are
// unique ignoring case.
//
// Error types returned:
//   - ErrInvalidInput: blank login or empty password
//   - Wrapped database errors, duplicate logins included
func (s *AuthService) CreateUser(ctx context.Context, login, password string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	if strings.TrimSpace(login) == "" {
		return User{}, fmt.Errorf("create user: %w: login cannot be blank", ErrInvalidInput)
	}

	if password == "" {
		return User{}, fmt.Errorf("create user %s: %w: password cannot be empty", login, ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("create user %s: %w", login, err)
	}

	user, err := s.users.Create(ctx, User{Login: login, PasswordHash: hash})
	if err != nil {
		return User{}, fmt.Errorf("create user %s: %w", login, err)
	}

	return user, nil
}

// Login checks the credentials and returns the user's session token, minting
// one if the user holds no session yet. Logging in again returns the same
// token.
//
// Wrong login and wrong password both resolve to ErrInvalidCredentials so
// callers cannot tell which part was rejected.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("login %s: %w", login, ErrInvalidCredentials)
		}
		return "", fmt.Errorf("login %s: %w", login, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("login %s: %w", login, ErrInvalidCredentials)
	}

	// Existing session wins so repeated logins keep the same token.
	session, err := s.sessions.GetByUser(ctx, user.ID)
	if err == nil {
		return session.Token, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("login %s: %w", login, err)
	}

	token, err := NewToken()
	if err != nil {
		return "", fmt.Errorf("login %s: %w", login, err)
	}

	session, err = s.sessions.Create(ctx, Session{Token: token, UserID: user.ID})
	if err != nil {
		return "", fmt.Errorf("login %s: %w", login, err)
	}

	return session.Token, nil
}

// Logout deletes the session holding the token.
//
// Error types returned:
//   - ErrInvalidToken: empty or unknown token
//   - Wrapped database errors
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	token = cleanToken(token)
	if token == "" {
		return fmt.Errorf("logout: %w: empty token", ErrInvalidToken)
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("logout: %w", ErrInvalidToken)
		}
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// ResolveUser resolves a session token to its user. An empty token is
// invalid without touching storage.
//
// Error types returned:
//   - ErrInvalidToken: empty or unknown token
//   - Wrapped database errors
func (s *AuthService) ResolveUser(ctx context.Context, token string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, fmt.Errorf("resolve user: %w", err)
	}

	token = cleanToken(token)
	if token == "" {
		return User{}, fmt.Errorf("resolve user: %w: empty token", ErrInvalidToken)
	}

	user, err := s.sessions.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, fmt.Errorf("resolve user: %w", ErrInvalidToken)
		}
		return User{}, fmt.Errorf("resolve user: %w", err)
	}

	return user, nil
}

// Valid reports whether the token resolves to a user.
func (s *AuthService) Valid(ctx context.Context, token string) bool {
	_, err := s.ResolveUser(ctx, token)
	return err == nil
}
