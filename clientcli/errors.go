package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrTokenRequired  = errors.New("auth token is required, run 'cloud-cli login' first")
	ErrConfigRequired = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrNoFilenames   = errors.New("no filenames provided")
	ErrEmptyPath     = errors.New("path is required")
	ErrEmptyFilename = errors.New("filename is required")
)
