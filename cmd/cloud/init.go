package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AweWarno/cloud"
	"github.com/AweWarno/cloud/config"
	"github.com/AweWarno/cloud/database"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database schema and seed users",
	Long: `Connect to the configured database, create any missing tables and
provision the seed users from configuration. This is useful when:
  - Preparing a fresh deployment before the first start
  - Creating accounts without running the HTTP server`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	repos, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	auth := cloud.NewAuthService(repos.Users, repos.Sessions)

	created, err := applySeedUsers(ctx, auth, repos.Users, cfg.Seed.Users)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	slog.Info("initialization complete", "users_created", created)
	return nil
}
