package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())

	creds := Credentials{
		AccountType:  AccountChina,
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		RedirectURI:  "http://localhost:9111/callback",
	}
	require.NoError(t, Save(creds))

	loaded := Load()
	assert.Equal(t, creds, loaded)
	assert.True(t, loaded.IsConfigured())
}

func TestSaveSetsOwnerOnlyPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	t.Setenv(EnvConfigDir, t.TempDir())

	require.NoError(t, Save(Credentials{ClientID: "id", ClientSecret: "secret"}))

	info, err := os.Stat(File())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(Dir())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestLoadFallsBackToEnvironment(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	t.Setenv(EnvAccountType, "CHINA")
	t.Setenv(EnvClientID, "env-client")
	t.Setenv(EnvClientSecret, "env-secret")
	t.Setenv(EnvRedirectURI, "http://localhost:8123/callback")

	creds := Load()
	assert.Equal(t, AccountChina, creds.AccountType)
	assert.Equal(t, "env-client", creds.ClientID)
	assert.Equal(t, "env-secret", creds.ClientSecret)
	assert.Equal(t, "http://localhost:8123/callback", creds.RedirectURI)
}

func TestLoadFilePrecedesEnvironment(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	t.Setenv(EnvClientID, "env-client")
	t.Setenv(EnvClientSecret, "env-secret")

	require.NoError(t, Save(Credentials{
		AccountType:  AccountGlobal,
		ClientID:     "file-client",
		ClientSecret: "file-secret",
	}))

	creds := Load()
	assert.Equal(t, "file-client", creds.ClientID)
	assert.Equal(t, "file-secret", creds.ClientSecret)
}

func TestLoadIgnoresIncompleteFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	t.Setenv(EnvClientID, "env-client")
	t.Setenv(EnvClientSecret, "env-secret")

	// Missing client_secret makes the file invalid.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"account_type":"global","client_id":"file-client"}`), 0600))

	creds := Load()
	assert.Equal(t, "env-client", creds.ClientID)
}

func TestLoadUnsetIsNotAnError(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")

	creds := Load()
	assert.False(t, creds.IsConfigured())
	assert.False(t, IsConfigured())
}

func TestNormalizeAccountType(t *testing.T) {
	tests := []struct {
		input string
		want  AccountType
	}{
		{"global", AccountGlobal},
		{"china", AccountChina},
		{"CHINA", AccountChina},
		{"", AccountGlobal},
		{"bogus", AccountGlobal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeAccountType(tt.input), "input %q", tt.input)
	}
}

func TestClear(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())

	require.NoError(t, Save(Credentials{ClientID: "id", ClientSecret: "secret"}))
	require.NoError(t, Clear())

	_, err := os.Stat(File())
	assert.True(t, os.IsNotExist(err))

	// Clearing again is a no-op.
	assert.NoError(t, Clear())
}

func TestEffectiveRedirectURI(t *testing.T) {
	assert.Equal(t, DefaultRedirectURI, Credentials{}.EffectiveRedirectURI())
	assert.Equal(t, "http://localhost:9000/cb",
		Credentials{RedirectURI: "http://localhost:9000/cb"}.EffectiveRedirectURI())
}
