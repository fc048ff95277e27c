package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every COINCHE_ env var that Load() reads.
var allConfigKeys = []string{
	"COINCHE_LISTEN_ADDR",
	"COINCHE_STORE",
	"COINCHE_DB_PATH",
	"COINCHE_SITE_URL",
	"COINCHE_STORE_TIMEOUT",
	"COINCHE_CONTENT_DIR",
	"COINCHE_MENU_REPAIR",
	"COINCHE_WP_URL",
	"COINCHE_WP_USERNAME",
	"COINCHE_WP_APP_PASSWORD",
}

// isolateConfigEnv saves and unsets all COINCHE_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func setWordPressEnv(t *testing.T) {
	t.Helper()
	t.Setenv("COINCHE_STORE", "wordpress")
	t.Setenv("COINCHE_WP_URL", "https://coinche-espace.fr/")
	t.Setenv("COINCHE_WP_USERNAME", "admin")
	t.Setenv("COINCHE_WP_APP_PASSWORD", "abcd efgh ijkl")
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "coinchesite.db", cfg.DBPath)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.SiteURL)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Empty(t, cfg.ContentDir)
	assert.False(t, cfg.MenuRepair)
	assert.False(t, cfg.UsesWordPress())
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("COINCHE_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("COINCHE_DB_PATH", "/tmp/test.db")
	t.Setenv("COINCHE_SITE_URL", "https://coinche.example/")
	t.Setenv("COINCHE_STORE_TIMEOUT", "3s")
	t.Setenv("COINCHE_CONTENT_DIR", "/srv/content")
	t.Setenv("COINCHE_MENU_REPAIR", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "https://coinche.example", cfg.SiteURL)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "/srv/content", cfg.ContentDir)
	assert.True(t, cfg.MenuRepair)
}

func TestLoad_WordPress(t *testing.T) {
	isolateConfigEnv(t)
	setWordPressEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.UsesWordPress())
	assert.Equal(t, "https://coinche-espace.fr", cfg.WPURL)
	assert.Equal(t, "admin", cfg.WPUsername)
	assert.Equal(t, "abcd efgh ijkl", cfg.WPAppPassword)
}

func TestLoad_WordPressStoreIsCaseInsensitive(t *testing.T) {
	isolateConfigEnv(t)
	setWordPressEnv(t)
	t.Setenv("COINCHE_STORE", " WordPress ")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StoreWordPress, cfg.Store)
}

func TestLoad_WordPressMissingCredentials(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("COINCHE_STORE", "wordpress")
	t.Setenv("COINCHE_WP_URL", "https://coinche-espace.fr")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "COINCHE_WP_USERNAME")
	assert.Contains(t, err.Error(), "COINCHE_WP_APP_PASSWORD")
	assert.NotContains(t, err.Error(), "COINCHE_WP_URL")
}

// TestLoad_WordPressCredentialsIgnoredForSQLite verifies that stray WordPress
// variables do not leak into a SQLite configuration.
func TestLoad_WordPressCredentialsIgnoredForSQLite(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("COINCHE_WP_USERNAME", "admin")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.WPUsername)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown store", "COINCHE_STORE", "postgres", "COINCHE_STORE"},
		{"bad duration", "COINCHE_STORE_TIMEOUT", "soon", "COINCHE_STORE_TIMEOUT"},
		{"zero duration", "COINCHE_STORE_TIMEOUT", "0s", "must be positive"},
		{"negative duration", "COINCHE_STORE_TIMEOUT", "-1s", "must be positive"},
		{"bad boolean", "COINCHE_MENU_REPAIR", "maybe", "COINCHE_MENU_REPAIR"},
		{"relative site url", "COINCHE_SITE_URL", "coinche.example", "absolute http(s) URL"},
		{"ftp site url", "COINCHE_SITE_URL", "ftp://coinche.example", "absolute http(s) URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_InvalidWordPressURL(t *testing.T) {
	isolateConfigEnv(t)
	setWordPressEnv(t)
	t.Setenv("COINCHE_WP_URL", "/wp-json")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "COINCHE_WP_URL")
}
