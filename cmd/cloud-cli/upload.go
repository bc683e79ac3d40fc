package main

import (
	"context"
	"os"

	"github.com/AweWarno/cloud/clientcli"
	"github.com/spf13/cobra"
)

var uploadRecursive bool

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path> [remote-name]",
	Short: "Upload files to the server",
	Long: `Upload files to the server.

The remote name defaults to the base name of the local path. With -r,
every file under the directory is uploaded and the remote name acts
as a prefix for the stored names.

Examples:
  cloud-cli upload ./file.txt
  cloud-cli upload ./file.txt reports/file.txt
  cloud-cli upload -r ./images/ media`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "upload directory recursively")
}

func runUpload(_ *cobra.Command, args []string) error {
	localPath := args[0]
	remoteName := ""
	if len(args) > 1 {
		remoteName = args[1]
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.UploadOptions{
		LocalPath:  localPath,
		RemoteName: remoteName,
		Recursive:  uploadRecursive,
	}

	results, err := client.Upload(context.Background(), opts)
	if err != nil {
		formatter := getFormatter()
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	formatter := getFormatter()
	if err := formatter.FormatUpload(os.Stdout, results); err != nil {
		return err
	}

	// Check for any errors in results
	for i := range results {
		if results[i].Err != nil {
			return results[i].Err
		}
	}

	return nil
}
