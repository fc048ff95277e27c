package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nebuludik/coinchesite/internal/domain/model"
	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PageStore = (*PageRepo)(nil)

// PageRepo is the SQLite implementation of the PageStore port interface.
type PageRepo struct {
	db      *DB
	siteURL string
}

// NewPageRepo creates a new PageRepo backed by the given DB. siteURL is the
// public base URL permalinks are built from.
func NewPageRepo(db *DB, siteURL string) *PageRepo {
	return &PageRepo{db: db, siteURL: strings.TrimRight(siteURL, "/")}
}

// FindPageBySlug returns the page with the given slug, in any status.
func (r *PageRepo) FindPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	const query = `SELECT id, slug, title, body, status FROM pages WHERE slug = ?`
	p, err := scanPage(r.db.Reader.QueryRowContext(ctx, query, slug))
	if err != nil {
		return model.Page{}, fmt.Errorf("find page %q: %w", slug, err)
	}
	p.Link = r.link(p.Slug)
	return p, nil
}

// FindPageByID returns the page with the given ID, in any status.
func (r *PageRepo) FindPageByID(ctx context.Context, id int64) (model.Page, error) {
	const query = `SELECT id, slug, title, body, status FROM pages WHERE id = ?`
	p, err := scanPage(r.db.Reader.QueryRowContext(ctx, query, id))
	if err != nil {
		return model.Page{}, fmt.Errorf("find page %d: %w", id, err)
	}
	p.Link = r.link(p.Slug)
	return p, nil
}

// UpsertPage looks the slug up and then creates or updates the page inside a
// single write transaction. The writer pool holds one connection, so two
// concurrent upserts of the same slug cannot both take the create branch.
func (r *PageRepo) UpsertPage(ctx context.Context, spec model.PageSpec) (model.Page, model.UpsertAction, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return model.Page{}, model.UpsertActionFailed, fmt.Errorf("begin upsert %q: %w", spec.Slug, err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	action := model.UpsertActionUpdated

	err = tx.QueryRowContext(ctx, `SELECT id FROM pages WHERE slug = ?`, spec.Slug).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		const insert = `
			INSERT INTO pages (slug, title, body, status)
			VALUES (?, ?, ?, ?)
		`
		res, err := tx.ExecContext(ctx, insert, spec.Slug, spec.Title, spec.Body, model.PageStatusPublish)
		if err != nil {
			return model.Page{}, model.UpsertActionFailed, fmt.Errorf("create page %q: %w", spec.Slug, err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return model.Page{}, model.UpsertActionFailed, fmt.Errorf("read id of page %q: %w", spec.Slug, err)
		}
		action = model.UpsertActionCreated
	case err != nil:
		return model.Page{}, model.UpsertActionFailed, fmt.Errorf("lookup page %q: %w", spec.Slug, err)
	default:
		const update = `
			UPDATE pages
			SET title = ?, body = ?, status = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`
		if _, err := tx.ExecContext(ctx, update, spec.Title, spec.Body, model.PageStatusPublish, id); err != nil {
			return model.Page{}, model.UpsertActionFailed, fmt.Errorf("update page %q: %w", spec.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Page{}, model.UpsertActionFailed, fmt.Errorf("commit upsert %q: %w", spec.Slug, err)
	}

	return model.Page{
		ID:     id,
		Slug:   spec.Slug,
		Title:  spec.Title,
		Body:   spec.Body,
		Status: model.PageStatusPublish,
		Link:   r.link(spec.Slug),
	}, action, nil
}

// Permalink returns <siteURL>/<slug>/ for the page with the given ID.
func (r *PageRepo) Permalink(ctx context.Context, id int64) (string, error) {
	var slug string
	err := r.db.Reader.QueryRowContext(ctx, `SELECT slug FROM pages WHERE id = ?`, id).Scan(&slug)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("permalink for page %d: %w", id, driven.ErrPageNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("permalink for page %d: %w", id, err)
	}
	return r.link(slug), nil
}

func (r *PageRepo) link(slug string) string {
	return r.siteURL + "/" + slug + "/"
}

func scanPage(row *sql.Row) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Body, &p.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, driven.ErrPageNotFound
	}
	if err != nil {
		return model.Page{}, err
	}
	return p, nil
}
