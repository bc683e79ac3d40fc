package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AweWarno/cloud"
	"github.com/AweWarno/cloud/config"
)

// applySeedUsers provisions the configured accounts, skipping logins that
// already exist. Returns the number of accounts created.
func applySeedUsers(ctx context.Context, auth *cloud.AuthService, users cloud.UserRepo, seeds []config.SeedUser) (int, error) {
	created := 0

	for _, seed := range seeds {
		_, err := users.GetByLogin(ctx, seed.Login)
		if err == nil {
			slog.Debug("seed user exists", "login", seed.Login)
			continue
		}
		if !errors.Is(err, cloud.ErrNotFound) {
			return created, fmt.Errorf("look up seed user %s: %w", seed.Login, err)
		}

		if _, err := auth.CreateUser(ctx, seed.Login, seed.Password); err != nil {
			return created, fmt.Errorf("seed user %s: %w", seed.Login, err)
		}

		created++
		slog.Info("seed user created", "login", seed.Login)
	}

	return created, nil
}
