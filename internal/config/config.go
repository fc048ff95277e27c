// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable with COINCHE_STORE.
const (
	StoreSQLite    = "sqlite"
	StoreWordPress = "wordpress"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr   string
	Store        string
	DBPath       string
	SiteURL      string
	StoreTimeout time.Duration
	ContentDir   string
	MenuRepair   bool

	WPURL         string
	WPUsername    string
	WPAppPassword string
}

// UsesWordPress reports whether deployments target a remote WordPress site.
func (c *Config) UsesWordPress() bool {
	return c.Store == StoreWordPress
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables with defaults: COINCHE_LISTEN_ADDR (127.0.0.1:8080),
// COINCHE_STORE (sqlite), COINCHE_DB_PATH (coinchesite.db),
// COINCHE_SITE_URL (http://127.0.0.1:8080), COINCHE_STORE_TIMEOUT (10s),
// COINCHE_CONTENT_DIR (unset), COINCHE_MENU_REPAIR (false).
// With COINCHE_STORE=wordpress, COINCHE_WP_URL, COINCHE_WP_USERNAME and
// COINCHE_WP_APP_PASSWORD are required.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:   "127.0.0.1:8080",
		Store:        StoreSQLite,
		DBPath:       "coinchesite.db",
		SiteURL:      "http://127.0.0.1:8080",
		StoreTimeout: 10 * time.Second,
	}

	if v, ok := os.LookupEnv("COINCHE_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("COINCHE_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("COINCHE_CONTENT_DIR"); ok {
		cfg.ContentDir = v
	}

	if v, ok := os.LookupEnv("COINCHE_STORE"); ok && v != "" {
		switch store := strings.ToLower(strings.TrimSpace(v)); store {
		case StoreSQLite, StoreWordPress:
			cfg.Store = store
		default:
			return nil, fmt.Errorf("COINCHE_STORE must be %q or %q, got %q", StoreSQLite, StoreWordPress, v)
		}
	}

	if v, ok := os.LookupEnv("COINCHE_SITE_URL"); ok {
		siteURL, err := parseBaseURL("COINCHE_SITE_URL", v)
		if err != nil {
			return nil, err
		}
		cfg.SiteURL = siteURL
	}

	if v, ok := os.LookupEnv("COINCHE_STORE_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("COINCHE_STORE_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("COINCHE_STORE_TIMEOUT must be positive, got %q", v)
		}
		cfg.StoreTimeout = parsed
	}

	if v, ok := os.LookupEnv("COINCHE_MENU_REPAIR"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("COINCHE_MENU_REPAIR has invalid boolean %q: %w", v, err)
		}
		cfg.MenuRepair = parsed
	}

	if cfg.UsesWordPress() {
		if err := cfg.loadWordPress(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) loadWordPress() error {
	var errs []error
	for key, dst := range map[string]*string{
		"COINCHE_WP_URL":          &c.WPURL,
		"COINCHE_WP_USERNAME":     &c.WPUsername,
		"COINCHE_WP_APP_PASSWORD": &c.WPAppPassword,
	} {
		*dst = os.Getenv(key)
		if *dst == "" {
			errs = append(errs, fmt.Errorf("%s is required when COINCHE_STORE=%s", key, StoreWordPress))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	wpURL, err := parseBaseURL("COINCHE_WP_URL", c.WPURL)
	if err != nil {
		return err
	}
	c.WPURL = wpURL
	return nil
}

// parseBaseURL validates an absolute http(s) URL and strips its trailing slash.
func parseBaseURL(key, raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%s has invalid URL %q: %w", key, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}
