// Package wordpress implements the ContentStore port against the WordPress
// REST API (wp/v2), authenticating with an application password.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ContentStore = (*Client)(nil)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the REST API. WordPress reports errors as
// {"code": ..., "message": ..., "data": {"status": ...}}.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: HTTP %d %s: %s", e.Method, e.Path, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Status)
}

// Client implements driven.ContentStore over HTTP.
type Client struct {
	http     *http.Client
	baseURL  *url.URL // Site root; the API lives under /wp-json/.
	username string
	password string
	logger   *slog.Logger
}

// NewClient creates a WordPress client for the site at siteURL. The HTTP
// client enforces timeout as a safety net alongside context cancellation.
func NewClient(siteURL, username, appPassword string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	return NewClientWithHTTPClient(&http.Client{Timeout: timeout}, siteURL, username, appPassword, logger)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, siteURL, username, appPassword string, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(siteURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing site URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("site URL %q must be http or https", siteURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http:     httpClient,
		baseURL:  u,
		username: username,
		password: appPassword,
		logger:   logger,
	}, nil
}

// Ping fetches the API index, which needs no authentication.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/wp-json/", nil, nil, nil); err != nil {
		return fmt.Errorf("%w: wordpress %s: %v", driven.ErrStoreUnavailable, c.baseURL, err)
	}
	return nil
}

// do sends one request. path is relative to the site root; in and out are
// JSON-encoded/decoded when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("creating %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("wordpress request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		var wpErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil {
			if json.Unmarshal(raw, &wpErr) == nil {
				apiErr.Code = wpErr.Code
				apiErr.Message = wpErr.Message
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

// isStatus reports whether err is an APIError with the given HTTP status.
func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
