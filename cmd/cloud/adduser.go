package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/AweWarno/cloud"
	"github.com/AweWarno/cloud/config"
	"github.com/AweWarno/cloud/database"
)

var addUserCmd = &cobra.Command{
	Use:   "adduser <login>",
	Short: "Create a user account",
	Long: `Create a user account in the configured database.

The password is taken from the --password flag when provided, otherwise
it is prompted for with masked input.

Examples:
  # Prompt for the password
  cloud adduser alice

  # Non-interactive (scripts, provisioning)
  cloud adduser alice --password secret`,
	Args: cobra.ExactArgs(1),
	RunE: runAddUser,
}

var addUserPassword string

func init() {
	addUserCmd.Flags().StringVarP(&addUserPassword, "password", "p", "", "password for the new account (prompted when omitted)")
	rootCmd.AddCommand(addUserCmd)
}

func runAddUser(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	login := args[0]

	password := addUserPassword
	if password == "" {
		prompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
			Validate: func(input string) error {
				if input == "" {
					return errors.New("password cannot be empty")
				}
				return nil
			},
		}

		password, err = prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				fmt.Println("\nCancelled.")
				os.Exit(0)
			}
			return fmt.Errorf("read password: %w", err)
		}
	}

	repos, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	auth := cloud.NewAuthService(repos.Users, repos.Sessions)

	user, err := auth.CreateUser(ctx, login, password)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.Info("user created", "login", user.Login, "id", user.ID)
	return nil
}
