package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nebuludik/coinchesite/internal/domain/model"
	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.MenuStore = (*MenuRepo)(nil)

// MenuRepo is the SQLite implementation of the MenuStore port interface.
type MenuRepo struct {
	db *DB
}

// NewMenuRepo creates a new MenuRepo backed by the given DB.
func NewMenuRepo(db *DB) *MenuRepo {
	return &MenuRepo{db: db}
}

// FindMenuByName returns driven.ErrMenuNotFound when no menu has the given name.
func (r *MenuRepo) FindMenuByName(ctx context.Context, name string) (model.Menu, error) {
	var m model.Menu
	err := r.db.Reader.QueryRowContext(ctx, `SELECT id, name FROM menus WHERE name = ?`, name).Scan(&m.ID, &m.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Menu{}, fmt.Errorf("find menu %q: %w", name, driven.ErrMenuNotFound)
	}
	if err != nil {
		return model.Menu{}, fmt.Errorf("find menu %q: %w", name, err)
	}
	return m, nil
}

// CreateMenu inserts the menu and all of its items in one transaction; a
// failing item rolls the whole menu back.
func (r *MenuRepo) CreateMenu(ctx context.Context, name string, items []model.NewMenuItem) (model.Menu, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return model.Menu{}, fmt.Errorf("begin create menu %q: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO menus (name) VALUES (?)`, name)
	if err != nil {
		return model.Menu{}, fmt.Errorf("create menu %q: %w", name, err)
	}
	menuID, err := res.LastInsertId()
	if err != nil {
		return model.Menu{}, fmt.Errorf("read id of menu %q: %w", name, err)
	}

	const insertItem = `INSERT INTO menu_items (menu_id, title, page_id, position) VALUES (?, ?, ?, ?)`
	for i, item := range items {
		if _, err := tx.ExecContext(ctx, insertItem, menuID, item.Title, item.PageID, i+1); err != nil {
			return model.Menu{}, fmt.Errorf("add item %q to menu %q: %w", item.Title, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Menu{}, fmt.Errorf("commit menu %q: %w", name, err)
	}

	return model.Menu{ID: menuID, Name: name}, nil
}

// ListMenuItems returns the items of a menu ordered by position.
func (r *MenuRepo) ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error) {
	const query = `
		SELECT id, menu_id, title, page_id, position
		FROM menu_items
		WHERE menu_id = ?
		ORDER BY position
	`
	rows, err := r.db.Reader.QueryContext(ctx, query, menuID)
	if err != nil {
		return nil, fmt.Errorf("list items of menu %d: %w", menuID, err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		var it model.MenuItem
		if err := rows.Scan(&it.ID, &it.MenuID, &it.Title, &it.PageID, &it.Position); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}
	return items, nil
}

// AddMenuItem appends an item after the current last position of the menu.
func (r *MenuRepo) AddMenuItem(ctx context.Context, menuID int64, item model.NewMenuItem) (model.MenuItem, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("begin add menu item: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM menus WHERE id = ?`, menuID).Scan(&exists); err != nil {
		return model.MenuItem{}, fmt.Errorf("check menu %d: %w", menuID, err)
	}
	if exists == 0 {
		return model.MenuItem{}, fmt.Errorf("add item to menu %d: %w", menuID, driven.ErrMenuNotFound)
	}

	var position int
	const next = `SELECT COALESCE(MAX(position), 0) + 1 FROM menu_items WHERE menu_id = ?`
	if err := tx.QueryRowContext(ctx, next, menuID).Scan(&position); err != nil {
		return model.MenuItem{}, fmt.Errorf("next position in menu %d: %w", menuID, err)
	}

	const insert = `INSERT INTO menu_items (menu_id, title, page_id, position) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insert, menuID, item.Title, item.PageID, position)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("add item %q to menu %d: %w", item.Title, menuID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("read id of menu item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.MenuItem{}, fmt.Errorf("commit menu item: %w", err)
	}

	return model.MenuItem{
		ID:       id,
		MenuID:   menuID,
		Title:    item.Title,
		PageID:   item.PageID,
		Position: position,
	}, nil
}

// AssignMenuLocation attaches the menu to location, replacing any previous menu there.
func (r *MenuRepo) AssignMenuLocation(ctx context.Context, location string, menuID int64) error {
	const query = `
		INSERT INTO menu_locations (location, menu_id)
		VALUES (?, ?)
		ON CONFLICT(location) DO UPDATE SET menu_id = excluded.menu_id
	`
	if _, err := r.db.Writer.ExecContext(ctx, query, location, menuID); err != nil {
		return fmt.Errorf("assign menu %d to %q: %w", menuID, location, err)
	}
	return nil
}

// MenuAtLocation returns the menu attached to location, or driven.ErrMenuNotFound.
func (r *MenuRepo) MenuAtLocation(ctx context.Context, location string) (model.Menu, error) {
	const query = `
		SELECT m.id, m.name
		FROM menu_locations l
		JOIN menus m ON m.id = l.menu_id
		WHERE l.location = ?
	`
	var m model.Menu
	err := r.db.Reader.QueryRowContext(ctx, query, location).Scan(&m.ID, &m.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Menu{}, fmt.Errorf("menu at %q: %w", location, driven.ErrMenuNotFound)
	}
	if err != nil {
		return model.Menu{}, fmt.Errorf("menu at %q: %w", location, err)
	}
	return m, nil
}
