// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/nebuludik/coinchesite/internal/domain/model"
)

// Sentinel errors returned by content store implementations.
var (
	// ErrPageNotFound indicates no page matches the requested slug or ID.
	ErrPageNotFound = errors.New("page not found")

	// ErrMenuNotFound indicates no menu matches the requested name or ID.
	ErrMenuNotFound = errors.New("menu not found")

	// ErrStoreUnavailable indicates the content store could not be reached at all.
	ErrStoreUnavailable = errors.New("content store unavailable")
)

// PageStore defines the driven port for page persistence.
type PageStore interface {
	// FindPageBySlug returns the page with the given slug, in any status.
	// Returns ErrPageNotFound when no page has that slug.
	FindPageBySlug(ctx context.Context, slug string) (model.Page, error)

	// UpsertPage creates the page when no page has spec.Slug, otherwise updates
	// title and body in place. The stored status is always forced to publish.
	// Exactly one mutation is performed; the returned page carries the stored ID.
	UpsertPage(ctx context.Context, spec model.PageSpec) (model.Page, model.UpsertAction, error)

	// Permalink returns the public URL of the page with the given ID.
	Permalink(ctx context.Context, id int64) (string, error)
}

// MenuStore defines the driven port for navigation menus.
type MenuStore interface {
	// FindMenuByName returns ErrMenuNotFound when no menu has the given name.
	FindMenuByName(ctx context.Context, name string) (model.Menu, error)

	// CreateMenu creates a named menu holding items in order. Implementations
	// must leave no menu behind when any item fails to insert.
	CreateMenu(ctx context.Context, name string, items []model.NewMenuItem) (model.Menu, error)

	// ListMenuItems returns the items of a menu ordered by position.
	ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error)

	// AddMenuItem appends an item at the end of an existing menu.
	AddMenuItem(ctx context.Context, menuID int64, item model.NewMenuItem) (model.MenuItem, error)

	// AssignMenuLocation attaches the menu to a theme location, replacing any
	// previous assignment for that location.
	AssignMenuLocation(ctx context.Context, location string, menuID int64) error
}

// SettingsStore is a small key-value view over global site settings.
type SettingsStore interface {
	// GetSetting returns ("", nil) when the key has never been set.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// ContentStore is the full content-store boundary the deployer depends on.
type ContentStore interface {
	PageStore
	MenuStore
	SettingsStore

	// Ping returns an error wrapping ErrStoreUnavailable when the store cannot be reached.
	Ping(ctx context.Context) error
}

// SiteReader serves stored pages and the menu attached to a location, for
// rendering the site locally.
type SiteReader interface {
	FindPageBySlug(ctx context.Context, slug string) (model.Page, error)
	FindPageByID(ctx context.Context, id int64) (model.Page, error)
	GetSetting(ctx context.Context, key string) (string, error)

	// MenuAtLocation returns ErrMenuNotFound when nothing is attached to location.
	MenuAtLocation(ctx context.Context, location string) (model.Menu, error)
	ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error)
}
