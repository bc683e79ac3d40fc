package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AweWarno/cloud/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile     string
	server      string
	token       string
	profileName string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "cloud-cli",
	Version: version,
	Short:   "Client for the cloud file storage server",
	Long: `Cloud CLI - Client for the cloud file storage server

Authenticate once with 'cloud-cli login', then upload, download,
list, rename, and delete your files. The session token is stored
in the active profile (~/.cloud/config.yaml) and sent with every
request in the auth-token header.

Quick start:
  cloud-cli configure add home
  cloud-cli upload ./report.pdf
  cloud-cli list`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.cloud/config.yaml, env: CLOUD_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "server URL (default: http://localhost:8081, env: CLOUD_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "session token (env: CLOUD_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: CLOUD_PROFILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

// getConfigPath resolves the config file path: the --config flag wins,
// then CLOUD_CONFIG, then the default location.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if envPath := clientcli.ConfigPathFromEnv(); envPath != "" {
		return envPath
	}
	return clientcli.DefaultConfigPath()
}

// resolveProfileName returns the requested profile name, from the
// --profile flag or CLOUD_PROFILE. Empty means the default profile.
func resolveProfileName() string {
	if profileName != "" {
		return profileName
	}
	return clientcli.ProfileFromEnv()
}

// loadProfileConfig loads the active profile from the config file.
// Returns nil without error when no config file or profile exists,
// unless the user explicitly asked for one.
func loadProfileConfig() (*clientcli.Config, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return nil, nil
	}

	name := resolveProfileName()

	cf, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		// A missing file is only an error when the user pointed at one
		// or asked for a specific profile.
		if cfgFile == "" && name == "" {
			return nil, nil //nolint:nilerr // fall through to env and flags
		}
		return nil, err
	}

	p, err := cf.GetProfile(name)
	if err != nil {
		if errors.Is(err, clientcli.ErrNoProfiles) && name == "" {
			return nil, nil
		}
		return nil, err
	}

	return clientcli.ConfigFromProfile(p), nil
}

// buildConfig merges config from the active profile, env vars, and
// flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	profileCfg, err := loadProfileConfig()
	if err != nil {
		return nil, err
	}
	if profileCfg != nil {
		configs = append(configs, profileCfg)
	}

	configs = append(configs, clientcli.ConfigFromEnv())

	configs = append(configs, &clientcli.Config{
		Endpoint: server,
		Token:    token,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

// handleError formats an error to the given writer and returns it.
func handleError(w io.Writer, err error) error {
	formatter := getFormatter()
	_ = formatter.FormatError(w, err)
	return err
}

// exitError is returned when we want to exit with a specific code
// but don't want cobra to print an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

// saveProfileToken writes a fresh token (and login) back to the active
// profile. A missing config file or profile is not an error here since
// the user may be running with env vars or flags only.
func saveProfileToken(login, newToken string) error {
	configPath := getConfigPath()
	if configPath == "" {
		return nil
	}

	cf, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		return nil //nolint:nilerr // nothing to update
	}

	p, err := cf.GetProfile(resolveProfileName())
	if err != nil {
		return nil //nolint:nilerr // nothing to update
	}

	p.Token = newToken
	if login != "" {
		p.Login = login
	}
	if err := cf.UpdateProfile(*p); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if err := cf.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	return nil
}
