package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// integerSettings are declared as integers in the wp/v2 settings schema and
// must be sent as JSON numbers.
var integerSettings = map[string]bool{
	"page_on_front":  true,
	"page_for_posts": true,
	"posts_per_page": true,
}

// GetSetting returns ("", nil) when WordPress does not expose the key.
func (c *Client) GetSetting(ctx context.Context, key string) (string, error) {
	q := url.Values{}
	q.Set("_fields", key)

	var settings map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/settings", q, nil, &settings); err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}

	raw, ok := settings[key]
	if !ok {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return string(raw), nil
}

// SetSetting writes one setting through the settings endpoint.
func (c *Client) SetSetting(ctx context.Context, key, value string) error {
	body := map[string]any{key: value}
	if integerSettings[key] {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("set setting %q: value %q is not an integer", key, value)
		}
		body[key] = n
	}

	if err := c.do(ctx, http.MethodPost, "/wp-json/wp/v2/settings", nil, body, nil); err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
