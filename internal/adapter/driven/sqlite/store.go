package sqlite

import (
	"context"
	"fmt"

	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.ContentStore = (*ContentStore)(nil)
	_ driven.SiteReader   = (*ContentStore)(nil)
)

// ContentStore bundles the SQLite repositories into the full content-store port.
type ContentStore struct {
	*PageRepo
	*MenuRepo
	*SettingsRepo
	db *DB
}

// NewContentStore creates a ContentStore over db. siteURL is used for permalinks.
func NewContentStore(db *DB, siteURL string) *ContentStore {
	return &ContentStore{
		PageRepo:     NewPageRepo(db, siteURL),
		MenuRepo:     NewMenuRepo(db),
		SettingsRepo: NewSettingsRepo(db),
		db:           db,
	}
}

// Ping checks the writer connection, which every mutation goes through.
func (s *ContentStore) Ping(ctx context.Context) error {
	if err := s.db.Writer.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: sqlite %s: %v", driven.ErrStoreUnavailable, s.db.Path(), err)
	}
	return nil
}
