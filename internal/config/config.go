package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AccountType selects which TickTick deployment to talk to.
type AccountType string

const (
	// AccountGlobal is the international deployment (ticktick.com).
	AccountGlobal AccountType = "global"
	// AccountChina is the China deployment (dida365.com, "Dida365").
	AccountChina AccountType = "china"
)

// DefaultRedirectURI is used when no redirect URI is configured. The port in
// this URI is where the local OAuth callback listener binds.
const DefaultRedirectURI = "http://localhost:8000/callback"

// Environment variable names for the env fallback.
const (
	EnvAccountType  = "TICKTICK_ACCOUNT_TYPE"
	EnvClientID     = "TICKTICK_CLIENT_ID"
	EnvClientSecret = "TICKTICK_CLIENT_SECRET"
	EnvRedirectURI  = "TICKTICK_REDIRECT_URI"

	// EnvConfigDir overrides the config directory (used in tests).
	EnvConfigDir = "TICKTICK_CONFIG_DIR"
)

// Credentials holds the OAuth client configuration.
type Credentials struct {
	AccountType  AccountType `json:"account_type"`
	ClientID     string      `json:"client_id"`
	ClientSecret string      `json:"client_secret"`
	RedirectURI  string      `json:"redirect_uri,omitempty"`
}

// IsConfigured reports whether both client ID and client secret are set.
func (c Credentials) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// EffectiveRedirectURI returns the configured redirect URI or the default.
func (c Credentials) EffectiveRedirectURI() string {
	if c.RedirectURI != "" {
		return c.RedirectURI
	}
	return DefaultRedirectURI
}

// Dir returns the configuration directory (~/.ticktick, or EnvConfigDir).
func Dir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to the working directory; file operations will surface
		// a proper error if this is unusable.
		return ".ticktick"
	}
	return filepath.Join(home, ".ticktick")
}

// File returns the path of the config file.
func File() string {
	return filepath.Join(Dir(), "config.json")
}

// normalizeAccountType maps unknown values to the global deployment, matching
// the behavior users expect when the variable is unset or mistyped.
func normalizeAccountType(s string) AccountType {
	switch AccountType(strings.ToLower(s)) {
	case AccountChina:
		return AccountChina
	default:
		return AccountGlobal
	}
}

// Save writes credentials to the config file with owner-only permissions.
func Save(creds Credentials) error {
	if creds.AccountType == "" {
		creds.AccountType = AccountGlobal
	}

	if err := os.MkdirAll(Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(File(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// loadFile reads credentials from the config file. Returns ok=false when the
// file is absent, unreadable, or missing required fields.
func loadFile() (Credentials, bool) {
	data, err := os.ReadFile(File())
	if err != nil {
		return Credentials{}, false
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, false
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return Credentials{}, false
	}

	creds.AccountType = normalizeAccountType(string(creds.AccountType))
	return creds, true
}

// loadEnv reads credentials from environment variables.
func loadEnv() Credentials {
	return Credentials{
		AccountType:  normalizeAccountType(os.Getenv(EnvAccountType)),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		RedirectURI:  os.Getenv(EnvRedirectURI),
	}
}

// Load returns credentials from the config file, falling back to environment
// variables when no valid file exists. Unset credentials yield a zero-valued
// (unconfigured) result rather than an error.
func Load() Credentials {
	if creds, ok := loadFile(); ok {
		if creds.RedirectURI == "" {
			// The redirect URI may still come from the environment even when
			// the client credentials come from the file.
			creds.RedirectURI = os.Getenv(EnvRedirectURI)
		}
		return creds
	}
	return loadEnv()
}

// Clear removes the config file. Removing a nonexistent file is not an error.
func Clear() error {
	err := os.Remove(File())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}
	return nil
}

// IsConfigured reports whether a usable configuration exists on disk or in
// the environment.
func IsConfigured() bool {
	return Load().IsConfigured()
}
