package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AweWarno/cloud/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "cloud",
	Short:   "File storage server with token authentication",
	Long: `Cloud is a file storage server that keeps each user's files in a
database and serves them over a REST API guarded by session tokens.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path, later files override earlier ones (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: CLOUD_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: cloud.db, env: CLOUD_DATABASE_DSN)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
