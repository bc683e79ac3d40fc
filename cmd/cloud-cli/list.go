package main

import (
	"context"
	"os"

	"github.com/AweWarno/cloud/clientcli"
	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your files on the server",
	Long: `List your files on the server.

Only files owned by the authenticated user are returned.

Examples:
  cloud-cli list
  cloud-cli list --limit 10`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "max number of files to return (0 = all)")
}

func runList(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.ListOptions{
		Limit: listLimit,
	}

	result, err := client.List(context.Background(), opts)
	if err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	formatter := getFormatter()
	return formatter.FormatList(os.Stdout, result)
}
