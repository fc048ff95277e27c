package httphandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nebuludik/coinchesite/internal/domain/model"
	"github.com/nebuludik/coinchesite/internal/theme"
)

// Pinger reports whether the content store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DeployInspector exposes the plan and the last report of a deployer.
type DeployInspector interface {
	Plan() model.DeployPlan
	LastReport() (*model.DeployReport, bool)
}

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	store    Pinger
	deployer DeployInspector
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(store Pinger, deployer DeployInspector, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		deployer: deployer,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with the API routes and every extra
// route set registered, wrapped with theme injection, logging and recovery
// middleware.
func NewServeMux(h *Handler, logger *slog.Logger, register ...func(*http.ServeMux)) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/plan", h.GetPlan)
	mux.HandleFunc("GET /api/v1/deployments/last", h.GetLastDeployment)

	for _, fn := range register {
		fn(mux)
	}

	// Every HTML page leaves with the dark theme in its head.
	wrapped := theme.HeadInjector(mux)
	// Recovery innermost so panics are caught before logging.
	wrapped = recoveryMiddleware(logger, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health pings the content store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// GetPlan returns the pages, front page and menu a deployment reconciles.
func (h *Handler) GetPlan(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toPlanResponse(h.deployer.Plan()))
}

// GetLastDeployment returns the report of the most recent run, or 404 when
// nothing ran since startup.
func (h *Handler) GetLastDeployment(w http.ResponseWriter, _ *http.Request) {
	report, ok := h.deployer.LastReport()
	if !ok {
		writeError(w, http.StatusNotFound, "no deployment has run yet")
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(report))
}
