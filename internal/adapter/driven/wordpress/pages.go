package wordpress

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nebuludik/coinchesite/internal/domain/model"
	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

// anyStatus matches the statuses get_page_by_path would find.
const anyStatus = "publish,future,draft,pending,private"

// wpPage is the subset of the wp/v2 page resource the deployer reads.
type wpPage struct {
	ID     int64  `json:"id"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
	Link   string `json:"link"`
	Title  struct {
		Raw      string `json:"raw"`
		Rendered string `json:"rendered"`
	} `json:"title"`
	Content struct {
		Raw string `json:"raw"`
	} `json:"content"`
}

// pageWrite is the body sent on create and update.
type pageWrite struct {
	Title   string `json:"title"`
	Slug    string `json:"slug,omitempty"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// FindPageBySlug looks the slug up across all non-trashed statuses.
func (c *Client) FindPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	q := url.Values{}
	q.Set("slug", slug)
	q.Set("status", anyStatus)
	q.Set("context", "edit")

	var pages []wpPage
	if err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/pages", q, nil, &pages); err != nil {
		return model.Page{}, fmt.Errorf("find page %q: %w", slug, err)
	}
	for _, p := range pages {
		if p.Slug == slug {
			return mapPage(p), nil
		}
	}
	return model.Page{}, fmt.Errorf("find page %q: %w", slug, driven.ErrPageNotFound)
}

// UpsertPage updates the page holding spec.Slug, or creates it. The lookup and
// the write are two requests; callers serialize runs to avoid a duplicate create.
func (c *Client) UpsertPage(ctx context.Context, spec model.PageSpec) (model.Page, model.UpsertAction, error) {
	existing, err := c.FindPageBySlug(ctx, spec.Slug)
	notFound := isNotFound(err)
	if err != nil && !notFound {
		return model.Page{}, model.UpsertActionFailed, err
	}

	body := pageWrite{
		Title:   spec.Title,
		Content: spec.Body,
		Status:  string(model.PageStatusPublish),
	}

	var saved wpPage
	if notFound {
		body.Slug = spec.Slug
		if err := c.do(ctx, http.MethodPost, "/wp-json/wp/v2/pages", nil, body, &saved); err != nil {
			return model.Page{}, model.UpsertActionFailed, fmt.Errorf("create page %q: %w", spec.Slug, err)
		}
		return mapPage(saved), model.UpsertActionCreated, nil
	}

	path := "/wp-json/wp/v2/pages/" + strconv.FormatInt(existing.ID, 10)
	if err := c.do(ctx, http.MethodPost, path, nil, body, &saved); err != nil {
		return model.Page{}, model.UpsertActionFailed, fmt.Errorf("update page %q (ID %d): %w", spec.Slug, existing.ID, err)
	}
	return mapPage(saved), model.UpsertActionUpdated, nil
}

// Permalink returns the page's public link as computed by WordPress.
func (c *Client) Permalink(ctx context.Context, id int64) (string, error) {
	q := url.Values{}
	q.Set("_fields", "id,link")

	var p wpPage
	err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/pages/"+strconv.FormatInt(id, 10), q, nil, &p)
	if isStatus(err, http.StatusNotFound) {
		return "", fmt.Errorf("permalink for page %d: %w", id, driven.ErrPageNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("permalink for page %d: %w", id, err)
	}
	return p.Link, nil
}

func mapPage(p wpPage) model.Page {
	title := p.Title.Raw
	if title == "" {
		title = p.Title.Rendered
	}
	return model.Page{
		ID:     p.ID,
		Slug:   p.Slug,
		Title:  title,
		Body:   p.Content.Raw,
		Status: model.PageStatus(p.Status),
		Link:   p.Link,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, driven.ErrPageNotFound)
}
