package main

import (
	"context"
	"os"

	"github.com/AweWarno/cloud/clientcli"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <filename> [filename...]",
	Short: "Delete files from the server",
	Long: `Delete one or more files from the server.

Examples:
  cloud-cli delete report.pdf
  cloud-cli delete old/a.txt old/b.txt old/c.txt
  cloud-cli delete -q temp/file.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.DeleteOptions{
		Names: args,
	}

	results, err := client.Delete(context.Background(), opts)
	if err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	formatter := getFormatter()
	if err := formatter.FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	// Return error if any deletes failed
	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}

	return nil
}
