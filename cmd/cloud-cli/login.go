package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AweWarno/cloud/clientcli"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var loginUser string

var loginCmd = &cobra.Command{
	Use:   "login [profile]",
	Short: "Log in and store the session token",
	Long: `Log in to the server and store the session token.

With a profile (named, or the configured default), the token is
written back to that profile in the config file. Without any
profiles, the token is printed so it can be exported as CLOUD_TOKEN.

The password is always prompted for and never stored.

Examples:
  cloud-cli login
  cloud-cli login work
  cloud-cli login --login alice`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "login", "l", "", "login name (prompted if omitted)")
}

func runLogin(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		profileName = args[0]
	}

	// Find the profile to store the token in, if there is one.
	var profile *clientcli.Profile
	var profileFile *clientcli.ConfigFile
	configPath := getConfigPath()
	name := resolveProfileName()
	if configPath != "" {
		cf, err := clientcli.LoadConfigFile(configPath)
		switch {
		case err == nil:
			p, getErr := cf.GetProfile(name)
			if getErr != nil {
				if name != "" {
					return getErr
				}
				// No profiles yet, log in without one.
			} else {
				profile = p
				profileFile = cf
			}
		case name != "" || cfgFile != "":
			return fmt.Errorf("load config: %w", err)
		}
	}

	// Endpoint: flags and env win over the profile.
	endpoint := server
	if endpoint == "" {
		endpoint = clientcli.ConfigFromEnv().Endpoint
	}
	if endpoint == "" && profile != nil {
		endpoint = profile.Endpoint
	}
	if endpoint == "" {
		endpoint = clientcli.DefaultEndpoint
	}

	// Login name: flag, then prompt with the profile login as default.
	loginName := loginUser
	if loginName == "" {
		defaultLogin := ""
		if profile != nil {
			defaultLogin = profile.Login
		}
		prompt := promptui.Prompt{
			Label:   "Login",
			Default: defaultLogin,
			Validate: func(input string) error {
				if input == "" {
					return errors.New("login is required")
				}
				return nil
			},
		}
		var err error
		loginName, err = prompt.Run()
		if err != nil {
			return handlePromptError(err)
		}
	}

	passwordPrompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
	}
	password, err := passwordPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	sessionToken, err := obtainToken(endpoint, loginName, password)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if profile != nil && profileFile != nil {
		profile.Token = sessionToken
		profile.Login = loginName
		if err := profileFile.Save(configPath); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		if !quiet {
			fmt.Printf("Logged in as '%s'. Token saved to profile '%s'.\n", loginName, profile.Name)
		}
		return nil
	}

	// No profile to store the token in, print it instead.
	fmt.Printf("Logged in as '%s'.\n", loginName)
	fmt.Printf("Token: %s\n", sessionToken)
	fmt.Printf("Export it with: export CLOUD_TOKEN=%s\n", sessionToken)
	return nil
}
