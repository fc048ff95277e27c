// Package web implements the HTML driving adapter: the deployment trigger
// at /setup and a local preview of the stored site.
package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/nebuludik/coinchesite/internal/adapter/driving/web/templates"
	vm "github.com/nebuludik/coinchesite/internal/adapter/driving/web/viewmodel"
	"github.com/nebuludik/coinchesite/internal/domain/model"
	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

const setupTitle = "Setup — Coinche de l'Espace"

// Deployer runs deployments; implemented by application.DeployService.
type Deployer interface {
	Plan() model.DeployPlan
	Deploy(ctx context.Context) *model.DeployReport
}

// Handler is the web driving adapter that serves HTML via templ components.
type Handler struct {
	deployer Deployer
	store    driven.ContentStore
	site     driven.SiteReader
	logger   *slog.Logger
}

// NewHandler creates a Handler. site may be nil, in which case the preview
// routes are not registered.
func NewHandler(deployer Deployer, store driven.ContentStore, site driven.SiteReader, logger *slog.Logger) *Handler {
	return &Handler{
		deployer: deployer,
		store:    store,
		site:     site,
		logger:   logger,
	}
}

// SetupForm renders the confirmation form listing what a run will change.
func (h *Handler) SetupForm(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	h.renderForm(w, r, token)
}

// SetupRun handles the form submission. Without coinche_run it shows the
// form again; with it, the CSRF token is checked, a deployment runs and its
// report is rendered.
func (h *Handler) SetupRun(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if r.PostFormValue("coinche_run") == "" {
		h.renderForm(w, r, csrfToken(w, r))
		return
	}

	if !validateCSRF(r) {
		h.logger.Warn("deployment refused: invalid CSRF token", "remote_addr", r.RemoteAddr)
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	h.logger.Info("deployment triggered", "remote_addr", r.RemoteAddr)
	report := h.deployer.Deploy(r.Context())

	data := toReportViewModel(report, h.deployer.Plan())
	h.render(w, r, http.StatusOK, templates.Layout(setupTitle, templates.Report(data)))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, token string) {
	plan := h.deployer.Plan()
	ctx := r.Context()

	status := make(map[string]pageStatus, len(plan.Pages))
	var lookupErr error
	for _, p := range plan.Pages {
		_, err := h.store.FindPageBySlug(ctx, p.Slug)
		switch {
		case err == nil:
			status[p.Slug] = pageStatus{exists: true, known: true}
		case errors.Is(err, driven.ErrPageNotFound):
			status[p.Slug] = pageStatus{known: true}
		default:
			lookupErr = err
		}
	}

	menuExists := false
	if _, err := h.store.FindMenuByName(ctx, plan.Menu.Name); err == nil {
		menuExists = true
	} else if !errors.Is(err, driven.ErrMenuNotFound) {
		lookupErr = err
	}

	data := toSetupViewModel(plan, status, menuExists, token)
	if lookupErr != nil {
		h.logger.Warn("store status lookup failed", "error", lookupErr)
		data.StoreError = "État actuel du site indisponible : " + lookupErr.Error()
	}

	h.render(w, r, http.StatusOK, templates.Layout(setupTitle, templates.SetupForm(data)))
}

// Home renders the page bound as the static front page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw, err := h.site.GetSetting(ctx, model.SettingPageOnFront)
	if err != nil {
		h.logger.Error("failed to read front page setting", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.render(w, r, http.StatusNotFound, templates.NotFound(r.URL.Path))
		return
	}

	page, err := h.site.FindPageByID(ctx, id)
	h.renderSitePage(w, r, page, err)
}

// SitePage renders the published page at /{slug}/.
func (h *Handler) SitePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.site.FindPageBySlug(r.Context(), r.PathValue("slug"))
	h.renderSitePage(w, r, page, err)
}

func (h *Handler) renderSitePage(w http.ResponseWriter, r *http.Request, page model.Page, err error) {
	if errors.Is(err, driven.ErrPageNotFound) || (err == nil && !page.IsPublished()) {
		h.render(w, r, http.StatusNotFound, templates.NotFound(r.URL.Path))
		return
	}
	if err != nil {
		h.logger.Error("failed to load page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := toSitePageViewModel(page, h.navigation(r.Context()))
	h.render(w, r, http.StatusOK, templates.SitePage(data))
}

// navigation resolves the menu at the primary location into links. A missing
// menu yields an empty bar.
func (h *Handler) navigation(ctx context.Context) []vm.NavItemViewModel {
	location := h.deployer.Plan().Menu.Location
	menu, err := h.site.MenuAtLocation(ctx, location)
	if err != nil {
		if !errors.Is(err, driven.ErrMenuNotFound) {
			h.logger.Warn("failed to load menu", "location", location, "error", err)
		}
		return nil
	}
	items, err := h.site.ListMenuItems(ctx, menu.ID)
	if err != nil {
		h.logger.Warn("failed to load menu items", "menu_id", menu.ID, "error", err)
		return nil
	}

	nav := make([]vm.NavItemViewModel, 0, len(items))
	for _, it := range items {
		target, err := h.site.FindPageByID(ctx, it.PageID)
		if err != nil || !target.IsPublished() {
			continue
		}
		nav = append(nav, vm.NavItemViewModel{Title: it.Title, Href: "/" + target.Slug + "/"})
	}
	return nav
}

// render buffers the component so a rendering error can still produce a 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
