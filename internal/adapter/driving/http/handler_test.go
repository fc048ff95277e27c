package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/nebuludik/coinchesite/internal/adapter/driving/http"
	"github.com/nebuludik/coinchesite/internal/domain/model"
	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

type mockInspector struct {
	plan model.DeployPlan
	last *model.DeployReport
}

func (m *mockInspector) Plan() model.DeployPlan { return m.plan }
func (m *mockInspector) LastReport() (*model.DeployReport, bool) {
	return m.last, m.last != nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMux(pinger *mockPinger, inspector *mockInspector, register ...func(*http.ServeMux)) http.Handler {
	h := httphandler.NewHandler(pinger, inspector, discardLogger())
	return httphandler.NewServeMux(h, discardLogger(), register...)
}

func serve(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHealth_OK(t *testing.T) {
	rec := serve(t, newMux(&mockPinger{}, &mockInspector{}), http.MethodGet, "/api/v1/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealth_StoreUnavailable(t *testing.T) {
	pinger := &mockPinger{err: driven.ErrStoreUnavailable}
	rec := serve(t, newMux(pinger, &mockInspector{}), http.MethodGet, "/api/v1/health")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, "content store unavailable", body["error"])
}

func TestGetPlan(t *testing.T) {
	inspector := &mockInspector{plan: model.DeployPlan{
		Pages: []model.PageSpec{
			{Title: "Présentation", Slug: "presentation", Body: "<p>long body</p>"},
			{Title: "Contact", Slug: "contact", Body: "<p>x</p>"},
		},
		FrontSlug: "presentation",
		Menu: model.MenuSpec{
			Name:     "Menu Principal",
			Location: "primary",
			Items:    []model.MenuItemSpec{{Title: "Contact", Slug: "contact"}, {Title: "Présentation", Slug: "presentation"}},
		},
	}}
	rec := serve(t, newMux(&mockPinger{}, inspector), http.MethodGet, "/api/v1/plan")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"pages": [
			{"title": "Présentation", "slug": "presentation"},
			{"title": "Contact", "slug": "contact"}
		],
		"front_page": "presentation",
		"menu": {"name": "Menu Principal", "location": "primary", "items": ["contact", "presentation"]}
	}`, rec.Body.String())
}

func TestGetLastDeployment_NoneYet(t *testing.T) {
	rec := serve(t, newMux(&mockPinger{}, &mockInspector{}), http.MethodGet, "/api/v1/deployments/last")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no deployment has run yet"}`, rec.Body.String())
}

func TestGetLastDeployment(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	inspector := &mockInspector{last: &model.DeployReport{
		RunID:      "run-7",
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Pages: []model.PageResult{
			{Title: "Présentation", Slug: "presentation", ID: 4, Action: model.UpsertActionUpdated, Permalink: "https://nebuludik.fr/presentation/"},
			{Title: "Contact", Slug: "contact", Action: model.UpsertActionFailed, Err: errors.New("rejected")},
		},
		FrontPage: model.StepResult{Attempted: true},
		Menu:      model.MenuResult{Outcome: model.MenuOutcomeDeferred},
	}}
	rec := serve(t, newMux(&mockPinger{}, inspector), http.MethodGet, "/api/v1/deployments/last")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"run_id": "run-7",
		"started_at": "2026-03-01T10:00:00Z",
		"finished_at": "2026-03-01T10:00:02Z",
		"failed": true,
		"pages": [
			{"title": "Présentation", "slug": "presentation", "id": 4, "action": "updated", "permalink": "https://nebuludik.fr/presentation/"},
			{"title": "Contact", "slug": "contact", "action": "failed", "error": "rejected"}
		],
		"front_page": {"attempted": true},
		"menu": {"outcome": "deferred", "items_added": 0},
		"warnings": []
	}`, rec.Body.String())
}

func TestNewServeMux_InjectsThemeIntoHTML(t *testing.T) {
	register := func(mux *http.ServeMux) {
		mux.HandleFunc("GET /page", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = io.WriteString(w, "<html><head><title>x</title></head><body></body></html>")
		})
	}
	rec := serve(t, newMux(&mockPinger{}, &mockInspector{}, register), http.MethodGet, "/page")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<style id="coinche-dark-theme">`)
	assert.Less(t, strings.Index(rec.Body.String(), "coinche-dark-theme"), strings.Index(rec.Body.String(), "</head>"))
}

func TestNewServeMux_JSONUntouched(t *testing.T) {
	rec := serve(t, newMux(&mockPinger{}, &mockInspector{}), http.MethodGet, "/api/v1/health")
	assert.NotContains(t, rec.Body.String(), "coinche-dark-theme")
}

func TestRecoveryMiddleware(t *testing.T) {
	register := func(mux *http.ServeMux) {
		boom := func(http.ResponseWriter, *http.Request) { panic("boom") }
		mux.HandleFunc("GET /boom", boom)
		mux.HandleFunc("GET /api/v1/boom", boom)
	}
	mux := newMux(&mockPinger{}, &mockInspector{}, register)

	rec := serve(t, mux, http.MethodGet, "/api/v1/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	rec = serve(t, mux, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error\n", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}
