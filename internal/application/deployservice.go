// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/nebuludik/coinchesite/internal/domain/model"
	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

// deployKey is the singleflight key shared by every deployment trigger.
const deployKey = "deploy"

// DefaultStoreTimeout bounds each content store call when no timeout is configured.
const DefaultStoreTimeout = 10 * time.Second

// DeployOptions tunes a DeployService.
type DeployOptions struct {
	// StoreTimeout bounds every individual store call.
	StoreTimeout time.Duration
	// RepairMenu appends the expected items missing from an existing menu
	// instead of skipping it.
	RepairMenu bool
}

// DeployService reconciles the content store with a DeployPlan: it upserts
// every page, binds the front page and bootstraps the navigation menu.
type DeployService struct {
	store   driven.ContentStore
	plan    model.DeployPlan
	opts    DeployOptions
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group
	writeMu sync.Mutex // Single writer: every check-then-act sequence runs under it.

	lastMu sync.Mutex
	last   *model.DeployReport
}

// NewDeployService creates a DeployService with all required dependencies.
func NewDeployService(store driven.ContentStore, plan model.DeployPlan, opts DeployOptions, logger *slog.Logger) *DeployService {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeployService{
		store:  store,
		plan:   plan,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Plan returns the plan the service deploys.
func (s *DeployService) Plan() model.DeployPlan {
	return s.plan
}

// Deploy runs one full deployment and returns its report. Concurrent callers
// share the in-flight run instead of starting a second one. The run is
// detached from ctx cancellation so a closed browser tab cannot stop it
// halfway; each store call still has its own timeout.
func (s *DeployService) Deploy(ctx context.Context) *model.DeployReport {
	v, _, shared := s.group.Do(deployKey, func() (any, error) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		report := s.run(context.WithoutCancel(ctx))

		s.lastMu.Lock()
		s.last = report
		s.lastMu.Unlock()
		return report, nil
	})
	report := v.(*model.DeployReport)
	if shared {
		s.logger.Info("joined in-flight deployment", "run_id", report.RunID)
	}
	return report
}

// LastReport returns the report of the most recent completed run.
func (s *DeployService) LastReport() (*model.DeployReport, bool) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	return s.last, s.last != nil
}

func (s *DeployService) run(ctx context.Context) *model.DeployReport {
	report := &model.DeployReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now().UTC(),
	}
	logger := s.logger.With("run_id", report.RunID)
	defer func() {
		report.FinishedAt = s.now().UTC()
		logger.Info("deployment finished",
			"failed", report.Failed(),
			"duration", report.FinishedAt.Sub(report.StartedAt),
		)
	}()

	logger.Info("deployment started", "pages", len(s.plan.Pages))

	if err := s.call(ctx, s.store.Ping); err != nil {
		report.Fatal = stepError(KindStoreUnavailable, "content store", err)
		logger.Error("content store unreachable, nothing attempted", "error", err)
		return report
	}

	// Every page is attempted regardless of earlier failures.
	pageIDs := make(map[string]int64, len(s.plan.Pages))
	for _, spec := range s.plan.Pages {
		res := s.upsertPage(ctx, logger, spec)
		report.Pages = append(report.Pages, res)
		if res.OK() {
			pageIDs[spec.Slug] = res.ID
		}
	}

	s.bindFrontPage(ctx, logger, report, pageIDs)

	report.Menu = s.bootstrapMenu(ctx, logger, report, pageIDs)

	for i := range report.Pages {
		p := &report.Pages[i]
		if !p.OK() {
			continue
		}
		var link string
		err := s.call(ctx, func(ctx context.Context) error {
			var err error
			link, err = s.store.Permalink(ctx, p.ID)
			return err
		})
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("permalink of %s: %v", p.Title, err))
			continue
		}
		p.Permalink = link
	}

	return report
}

// UpsertPage creates or updates a single page outside a full run.
func (s *DeployService) UpsertPage(ctx context.Context, spec model.PageSpec) model.PageResult {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.upsertPage(ctx, s.logger, spec)
}

func (s *DeployService) upsertPage(ctx context.Context, logger *slog.Logger, spec model.PageSpec) model.PageResult {
	res := model.PageResult{Title: spec.Title, Slug: spec.Slug}

	var page model.Page
	var action model.UpsertAction
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		page, action, err = s.store.UpsertPage(ctx, spec)
		return err
	})
	if err == nil && page.ID == 0 {
		err = errors.New("store returned no page ID")
	}
	if err != nil {
		res.Action = model.UpsertActionFailed
		res.Err = stepError(KindStoreWrite, spec.Title, err)
		logger.Error("page upsert failed", "slug", spec.Slug, "error", err)
		return res
	}

	res.ID = page.ID
	res.Action = action
	res.Permalink = page.Link
	logger.Info("page upserted", "slug", spec.Slug, "id", page.ID, "action", action)
	return res
}

// SetFrontPage points the site's static front page at pageID. It does not
// check that the page exists.
func (s *DeployService) SetFrontPage(ctx context.Context, pageID int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.setFrontPage(ctx, pageID)
}

func (s *DeployService) setFrontPage(ctx context.Context, pageID int64) error {
	if err := s.call(ctx, func(ctx context.Context) error {
		return s.store.SetSetting(ctx, model.SettingShowOnFront, model.ShowOnFrontPage)
	}); err != nil {
		return stepError(KindConfigMutation, "front page mode", err)
	}
	if err := s.call(ctx, func(ctx context.Context) error {
		return s.store.SetSetting(ctx, model.SettingPageOnFront, strconv.FormatInt(pageID, 10))
	}); err != nil {
		return stepError(KindConfigMutation, "front page id", err)
	}
	return nil
}

func (s *DeployService) bindFrontPage(ctx context.Context, logger *slog.Logger, report *model.DeployReport, pageIDs map[string]int64) {
	if s.plan.FrontSlug == "" {
		return
	}
	id, ok := pageIDs[s.plan.FrontSlug]
	if !ok {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("front page not set: page %q was not written", s.plan.FrontSlug))
		return
	}

	report.FrontPage.Attempted = true
	if err := s.setFrontPage(ctx, id); err != nil {
		report.FrontPage.Err = err
		report.Warnings = append(report.Warnings, err.Error())
		logger.Warn("front page binding failed", "page_id", id, "error", err)
		return
	}
	logger.Info("front page bound", "slug", s.plan.FrontSlug, "page_id", id)
}

// BootstrapMenu runs the menu step alone against the given slug -> page ID map.
func (s *DeployService) BootstrapMenu(ctx context.Context, pageIDs map[string]int64) (model.MenuResult, []string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	report := &model.DeployReport{}
	res := s.bootstrapMenu(ctx, s.logger, report, pageIDs)
	return res, report.Warnings
}

func (s *DeployService) bootstrapMenu(ctx context.Context, logger *slog.Logger, report *model.DeployReport, pageIDs map[string]int64) model.MenuResult {
	spec := s.plan.Menu
	logger = logger.With("menu", spec.Name)

	var menu model.Menu
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		menu, err = s.store.FindMenuByName(ctx, spec.Name)
		return err
	})
	switch {
	case err == nil:
		if !s.opts.RepairMenu {
			logger.Info("menu already exists, left untouched", "menu_id", menu.ID)
			return model.MenuResult{Outcome: model.MenuOutcomeSkipped, MenuID: menu.ID}
		}
		return s.repairMenu(ctx, logger, report, menu, pageIDs)
	case !errors.Is(err, driven.ErrMenuNotFound):
		logger.Error("menu lookup failed", "error", err)
		return model.MenuResult{Outcome: model.MenuOutcomeFailed, Err: stepError(KindMenuCreation, "menu lookup", err)}
	}

	items := make([]model.NewMenuItem, 0, len(spec.Items))
	for _, it := range spec.Items {
		id, ok := pageIDs[it.Slug]
		if !ok {
			// Creating a partial menu now would be skipped forever after.
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("menu %q not created: page %q was not written", spec.Name, it.Slug))
			logger.Warn("menu creation deferred", "missing_page", it.Slug)
			return model.MenuResult{Outcome: model.MenuOutcomeDeferred}
		}
		items = append(items, model.NewMenuItem{Title: it.Title, PageID: id})
	}

	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		menu, err = s.store.CreateMenu(ctx, spec.Name, items)
		return err
	})
	if err != nil {
		logger.Error("menu creation failed", "error", err)
		return model.MenuResult{Outcome: model.MenuOutcomeFailed, Err: stepError(KindMenuCreation, "menu creation", err)}
	}
	logger.Info("menu created", "menu_id", menu.ID, "items", len(items))

	s.assignLocation(ctx, logger, report, menu)

	return model.MenuResult{Outcome: model.MenuOutcomeCreated, MenuID: menu.ID, ItemsAdded: len(items)}
}

func (s *DeployService) repairMenu(ctx context.Context, logger *slog.Logger, report *model.DeployReport, menu model.Menu, pageIDs map[string]int64) model.MenuResult {
	var existing []model.MenuItem
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		existing, err = s.store.ListMenuItems(ctx, menu.ID)
		return err
	})
	if err != nil {
		return model.MenuResult{Outcome: model.MenuOutcomeFailed, MenuID: menu.ID, Err: stepError(KindMenuCreation, "menu items lookup", err)}
	}

	present := make(map[int64]bool, len(existing))
	for _, it := range existing {
		present[it.PageID] = true
	}

	res := model.MenuResult{Outcome: model.MenuOutcomeSkipped, MenuID: menu.ID}
	for _, it := range s.plan.Menu.Items {
		id, ok := pageIDs[it.Slug]
		if !ok {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("menu item %q not repaired: page was not written", it.Slug))
			continue
		}
		if present[id] {
			continue
		}
		err := s.call(ctx, func(ctx context.Context) error {
			_, err := s.store.AddMenuItem(ctx, menu.ID, model.NewMenuItem{Title: it.Title, PageID: id})
			return err
		})
		if err != nil {
			res.Outcome = model.MenuOutcomeFailed
			res.Err = stepError(KindMenuCreation, "menu repair", err)
			logger.Error("menu repair failed", "item", it.Slug, "error", err)
			return res
		}
		present[id] = true
		res.ItemsAdded++
		res.Outcome = model.MenuOutcomeRepaired
	}

	if res.Outcome == model.MenuOutcomeRepaired {
		logger.Info("menu repaired", "menu_id", menu.ID, "items_added", res.ItemsAdded)
		s.assignLocation(ctx, logger, report, menu)
	} else {
		logger.Info("menu complete, left untouched", "menu_id", menu.ID)
	}
	return res
}

func (s *DeployService) assignLocation(ctx context.Context, logger *slog.Logger, report *model.DeployReport, menu model.Menu) {
	location := s.plan.Menu.Location
	if location == "" {
		return
	}
	err := s.call(ctx, func(ctx context.Context) error {
		return s.store.AssignMenuLocation(ctx, location, menu.ID)
	})
	if err != nil {
		warn := stepError(KindConfigMutation, "menu location "+location, err)
		report.Warnings = append(report.Warnings, warn.Error())
		logger.Warn("menu location assignment failed", "location", location, "error", err)
	}
}

// call runs fn under the per-call store timeout.
func (s *DeployService) call(ctx context.Context, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	return fn(callCtx)
}
