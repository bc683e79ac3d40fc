package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the session token",
	Long: `Log out from the server and discard the stored session token.

The token is invalidated server-side, then removed from the active
profile if one is configured.`,
	Args: cobra.NoArgs,
	RunE: runLogout,
}

func runLogout(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Logout(ctx); err != nil {
		return handleError(os.Stderr, err)
	}

	if err := saveProfileToken("", ""); err != nil {
		return err
	}

	if !quiet {
		fmt.Println("Logged out.")
	}
	return nil
}
