package web

import (
	"net/http"

	"github.com/nebuludik/coinchesite/internal/theme"
)

// RegisterRoutes registers all web routes on the provided mux.
// The deployment trigger lives at /setup; the dark theme stylesheet is served
// raw; the preview routes are added only when a SiteReader was given.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /static/setup.css", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, StaticFS, "static/setup.css")
	})
	mux.HandleFunc("GET /theme/"+theme.StyleID+".css", theme.ServeStylesheet)

	mux.HandleFunc("GET /setup", h.SetupForm)
	mux.HandleFunc("POST /setup", h.SetupRun)

	if h.site != nil {
		mux.HandleFunc("GET /{$}", h.Home)
		mux.HandleFunc("GET /{slug}/{$}", h.SitePage)
	}
}
