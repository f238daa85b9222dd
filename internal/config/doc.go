// Package config manages persistent OAuth client configuration for TickTick.
//
// Credentials (account type, client ID, client secret, redirect URI) are
// stored in ~/.ticktick/config.json with owner-only permissions. When no
// config file exists, credentials fall back to the TICKTICK_* environment
// variables. Missing credentials are not an error until an operation that
// needs them is attempted.
package config
