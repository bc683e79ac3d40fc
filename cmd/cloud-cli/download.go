package main

import (
	"context"
	"io"
	"os"

	"github.com/AweWarno/cloud/clientcli"
	"github.com/spf13/cobra"
)

var (
	downloadOutput string
	downloadStdout bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <remote-name> [local-path]",
	Short: "Download a file from the server",
	Long: `Download a file from the server.

The local path defaults to the base name of the remote file.

Examples:
  cloud-cli download report.pdf
  cloud-cli download report.pdf ./downloads/report.pdf
  cloud-cli download --stdout config.json | jq .
  cloud-cli download -o ./output.txt report.pdf`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
}

func runDownload(_ *cobra.Command, args []string) error {
	remoteName := args[0]

	// Determine local path
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}
	if downloadStdout {
		localPath = "-"
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.DownloadOptions{
		RemoteName: remoteName,
		LocalPath:  localPath,
	}

	result, reader, err := client.Download(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	// If stdout, write content to stdout
	if reader != nil {
		defer func() { _ = reader.Close() }()
		_, err := io.Copy(os.Stdout, reader)
		if err != nil {
			return err
		}
		// Don't print metadata when writing to stdout (unless JSON mode)
		if jsonOutput {
			formatter := getFormatter()
			return formatter.FormatDownload(os.Stderr, result)
		}
		return nil
	}

	// Otherwise, format the result
	formatter := getFormatter()
	return formatter.FormatDownload(os.Stdout, result)
}
