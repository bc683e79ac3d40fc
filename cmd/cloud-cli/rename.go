package main

import (
	"context"
	"os"

	"github.com/AweWarno/cloud/clientcli"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:     "rename <old-name> <new-name>",
	Aliases: []string{"mv"},
	Short:   "Rename a file on the server",
	Long: `Rename a file on the server.

Examples:
  cloud-cli rename draft.txt final.txt
  cloud-cli mv old/report.pdf archive/report.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

func runRename(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.RenameOptions{
		OldName: args[0],
		NewName: args[1],
	}

	if err := client.Rename(context.Background(), opts); err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatRename(os.Stdout, opts)
}
