package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Quaestor-Technologies/smx-mcp/config"
)

func resetFlags() {
	configPath = ""
	debug = false
	tokenCacheSpec = ""
	timeoutSeconds = 0
}

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvClientID, "clientID")
	t.Setenv(config.EnvClientSecret, "clientSecret")
}

func TestRootCommandStructure(t *testing.T) {
	rootCmd := newRootCmd()

	expected := []string{
		"token", "companies", "metrics", "budgets", "custom-columns",
		"documents", "funds", "requests", "reports", "notes", "users",
		"portfolio", "performance", "summary", "raw",
	}

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range expected {
		assert.True(t, names[want], "missing subcommand: %s", want)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	resetFlags()
	setCredentials(t)

	tokenCacheSpec = "file:/tmp/smx-token.json"
	timeoutSeconds = 2.5
	debug = true
	defer resetFlags()

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "file:/tmp/smx-token.json", cfg.TokenCache)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	resetFlags()
	t.Setenv(config.EnvClientID, "")
	t.Setenv(config.EnvClientSecret, "")

	_, err := loadConfig()
	require.Error(t, err)
}

func newTokenServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"access_token":"abc123","token_type":"Bearer","expires_in":3600}`)
	}))
}

func TestTokenCommand(t *testing.T) {
	resetFlags()
	setCredentials(t)

	ts := newTokenServer()
	defer ts.Close()
	t.Setenv(config.EnvTokenURL, ts.URL)

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"token"})
	require.NoError(t, rootCmd.Execute())
}

func TestCompaniesListCommand(t *testing.T) {
	resetFlags()
	setCredentials(t)

	ts := newTokenServer()
	defer ts.Close()
	t.Setenv(config.EnvTokenURL, ts.URL)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, `{"error":"unauthorized"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"count":1,"results":[{"id":"acme","name":"Acme"}]}`)
	}))
	defer srv.Close()
	t.Setenv(config.EnvBaseURL, srv.URL)

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"companies", "list", "--page-size", "10"})
	require.NoError(t, rootCmd.Execute())
}
