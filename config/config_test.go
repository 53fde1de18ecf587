package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvClientID, EnvClientSecret, EnvBaseURL, EnvTokenURL, EnvTimeout, EnvTokenCache} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvClientID, "id")
	t.Setenv(EnvClientSecret, "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultBaseURL+"/o/token/", cfg.TokenURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadMissingCredentials(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvClientID)

	t.Setenv(EnvClientID, "id")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvClientSecret)
}

func TestLoadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvClientID, "id")
	t.Setenv(EnvClientSecret, "secret")
	t.Setenv(EnvTimeout, "2.5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)

	t.Setenv(EnvTimeout, "bogus")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvClientID, "id")
	t.Setenv(EnvClientSecret, "secret")
	t.Setenv(EnvBaseURL, "https://sandbox.example.com")
	t.Setenv(EnvTokenURL, "https://auth.example.com/token")
	t.Setenv(EnvTokenCache, "file:/tmp/token.json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.example.com", cfg.BaseURL)
	assert.Equal(t, "https://auth.example.com/token", cfg.TokenURL)
	assert.Equal(t, "file:/tmp/token.json", cfg.TokenCache)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "smx.yaml")
	body := `client_id: file-id
client_secret: ${FILE_SECRET}
base_url: https://file.example.com
request_timeout: 5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	t.Setenv("FILE_SECRET", "file-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-id", cfg.ClientID)
	assert.Equal(t, "file-secret", cfg.ClientSecret)
	assert.Equal(t, "https://file.example.com", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	// env wins over the file
	t.Setenv(EnvClientID, "env-id")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.ClientID)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
