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

type wpMenu struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Locations []string `json:"locations"`
}

type wpMenuItem struct {
	ID        int64 `json:"id"`
	Menus     int64 `json:"menus"`
	ObjectID  int64 `json:"object_id"`
	MenuOrder int   `json:"menu_order"`
	Title     struct {
		Raw      string `json:"raw"`
		Rendered string `json:"rendered"`
	} `json:"title"`
}

type menuItemWrite struct {
	Title     string `json:"title"`
	Menus     int64  `json:"menus"`
	Object    string `json:"object"`
	ObjectID  int64  `json:"object_id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	MenuOrder int    `json:"menu_order"`
}

// FindMenuByName searches menus and returns the one whose name matches exactly.
func (c *Client) FindMenuByName(ctx context.Context, name string) (model.Menu, error) {
	q := url.Values{}
	q.Set("search", name)
	q.Set("per_page", "100")

	var menus []wpMenu
	if err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/menus", q, nil, &menus); err != nil {
		return model.Menu{}, fmt.Errorf("find menu %q: %w", name, err)
	}
	for _, m := range menus {
		if m.Name == name {
			return model.Menu{ID: m.ID, Name: m.Name}, nil
		}
	}
	return model.Menu{}, fmt.Errorf("find menu %q: %w", name, driven.ErrMenuNotFound)
}

// CreateMenu creates the menu then its items one request at a time. The REST
// API has no transaction, so a failed item deletes the menu again and the
// error reports both failures if the cleanup fails too.
func (c *Client) CreateMenu(ctx context.Context, name string, items []model.NewMenuItem) (model.Menu, error) {
	var created wpMenu
	if err := c.do(ctx, http.MethodPost, "/wp-json/wp/v2/menus", nil, map[string]string{"name": name}, &created); err != nil {
		return model.Menu{}, fmt.Errorf("create menu %q: %w", name, err)
	}

	for i, item := range items {
		if _, err := c.addItem(ctx, created.ID, item, i+1); err != nil {
			itemErr := fmt.Errorf("add item %q to menu %q: %w", item.Title, name, err)
			if delErr := c.deleteMenu(ctx, created.ID); delErr != nil {
				return model.Menu{}, errors.Join(itemErr, fmt.Errorf("roll back menu %q: %w", name, delErr))
			}
			c.logger.Warn("menu rolled back after item failure", "menu", name, "menu_id", created.ID, "error", err)
			return model.Menu{}, itemErr
		}
	}

	return model.Menu{ID: created.ID, Name: created.Name}, nil
}

// ListMenuItems returns the items of a menu ordered by menu_order.
func (c *Client) ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error) {
	q := url.Values{}
	q.Set("menus", strconv.FormatInt(menuID, 10))
	q.Set("per_page", "100")
	q.Set("orderby", "menu_order")
	q.Set("order", "asc")
	q.Set("context", "edit")

	var raw []wpMenuItem
	if err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/menu-items", q, nil, &raw); err != nil {
		return nil, fmt.Errorf("list items of menu %d: %w", menuID, err)
	}

	items := make([]model.MenuItem, 0, len(raw))
	for _, it := range raw {
		items = append(items, mapMenuItem(it))
	}
	return items, nil
}

// AddMenuItem appends an item after the current last menu_order.
func (c *Client) AddMenuItem(ctx context.Context, menuID int64, item model.NewMenuItem) (model.MenuItem, error) {
	existing, err := c.ListMenuItems(ctx, menuID)
	if err != nil {
		return model.MenuItem{}, err
	}
	last := 0
	for _, it := range existing {
		if it.Position > last {
			last = it.Position
		}
	}

	added, err := c.addItem(ctx, menuID, item, last+1)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("add item %q to menu %d: %w", item.Title, menuID, err)
	}
	return added, nil
}

// AssignMenuLocation sets the menu's theme locations. WordPress keeps one menu
// per location, so this also detaches the previous menu.
func (c *Client) AssignMenuLocation(ctx context.Context, location string, menuID int64) error {
	path := "/wp-json/wp/v2/menus/" + strconv.FormatInt(menuID, 10)
	body := map[string][]string{"locations": {location}}
	if err := c.do(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return fmt.Errorf("assign menu %d to %q: %w", menuID, location, err)
	}
	return nil
}

func (c *Client) addItem(ctx context.Context, menuID int64, item model.NewMenuItem, order int) (model.MenuItem, error) {
	body := menuItemWrite{
		Title:     item.Title,
		Menus:     menuID,
		Object:    "page",
		ObjectID:  item.PageID,
		Type:      "post_type",
		Status:    string(model.PageStatusPublish),
		MenuOrder: order,
	}

	var saved wpMenuItem
	if err := c.do(ctx, http.MethodPost, "/wp-json/wp/v2/menu-items", nil, body, &saved); err != nil {
		return model.MenuItem{}, err
	}
	return mapMenuItem(saved), nil
}

func (c *Client) deleteMenu(ctx context.Context, menuID int64) error {
	q := url.Values{}
	q.Set("force", "true")
	return c.do(ctx, http.MethodDelete, "/wp-json/wp/v2/menus/"+strconv.FormatInt(menuID, 10), q, nil, nil)
}

func mapMenuItem(it wpMenuItem) model.MenuItem {
	title := it.Title.Raw
	if title == "" {
		title = it.Title.Rendered
	}
	return model.MenuItem{
		ID:       it.ID,
		MenuID:   it.Menus,
		Title:    title,
		PageID:   it.ObjectID,
		Position: it.MenuOrder,
	}
}
