package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sqliteadapter "github.com/nebuludik/coinchesite/internal/adapter/driven/sqlite"
	wpadapter "github.com/nebuludik/coinchesite/internal/adapter/driven/wordpress"
	"github.com/nebuludik/coinchesite/internal/application"
	"github.com/nebuludik/coinchesite/internal/config"
	"github.com/nebuludik/coinchesite/internal/content"
	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

// deployment is the wired application shared by the subcommands.
type deployment struct {
	cfg     *config.Config
	store   driven.ContentStore
	site    driven.SiteReader // nil for WordPress; the real site renders itself.
	service *application.DeployService
	close   func() error
}

// wire loads configuration, the page catalogue and the selected content store.
func wire(ctx context.Context, logger *slog.Logger) (*deployment, error) {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Info("config loaded",
		"store", cfg.Store,
		"listen_addr", cfg.ListenAddr,
		"site_url", cfg.SiteURL,
		"store_timeout", cfg.StoreTimeout,
		"menu_repair", cfg.MenuRepair,
	)

	// 2. Load and validate the page catalogue.
	cat, err := loadCatalogue(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("catalogue loaded", "pages", len(cat.Pages), "content_dir", cfg.ContentDir)

	// 3. Open the content store.
	d := &deployment{cfg: cfg, close: func() error { return nil }}
	if cfg.UsesWordPress() {
		client, err := wpadapter.NewClient(cfg.WPURL, cfg.WPUsername, cfg.WPAppPassword, cfg.StoreTimeout, logger)
		if err != nil {
			return nil, err
		}
		d.store = client
		logger.Info("wordpress store configured", "url", cfg.WPURL, "username", cfg.WPUsername)
	} else {
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		version, err := sqliteadapter.RunMigrations(db.Writer)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("database opened", "path", cfg.DBPath, "schema_version", version)

		store := sqliteadapter.NewContentStore(db, cfg.SiteURL)
		d.store = store
		d.site = store
		d.close = db.Close
	}

	// 4. Wire the deployer.
	d.service = application.NewDeployService(d.store, cat.Plan(), application.DeployOptions{
		StoreTimeout: cfg.StoreTimeout,
		RepairMenu:   cfg.MenuRepair,
	}, logger)

	return d, nil
}

func loadCatalogue(cfg *config.Config) (*content.Catalogue, error) {
	if cfg.ContentDir == "" {
		return content.Default()
	}
	info, err := os.Stat(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("COINCHE_CONTENT_DIR: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("COINCHE_CONTENT_DIR %q is not a directory", cfg.ContentDir)
	}
	return content.Load(os.DirFS(cfg.ContentDir))
}
