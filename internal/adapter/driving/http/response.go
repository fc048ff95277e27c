package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nebuludik/coinchesite/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// PlanResponse is the JSON representation of a deployment plan.
type PlanResponse struct {
	Pages     []PlannedPageResponse `json:"pages"`
	FrontPage string                `json:"front_page"`
	Menu      PlannedMenuResponse   `json:"menu"`
}

// PlannedPageResponse is one page of the plan. The body is omitted.
type PlannedPageResponse struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// PlannedMenuResponse is the menu of the plan; Items holds page slugs in order.
type PlannedMenuResponse struct {
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Items    []string `json:"items"`
}

// ReportResponse is the JSON representation of a deployment report.
type ReportResponse struct {
	RunID      string               `json:"run_id"`
	StartedAt  string               `json:"started_at"`
	FinishedAt string               `json:"finished_at"`
	Failed     bool                 `json:"failed"`
	Fatal      string               `json:"fatal,omitempty"`
	Pages      []PageResultResponse `json:"pages"`
	FrontPage  StepResponse         `json:"front_page"`
	Menu       MenuResultResponse   `json:"menu"`
	Warnings   []string             `json:"warnings"`
}

// PageResultResponse is the outcome of one page upsert.
type PageResultResponse struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	ID        int64  `json:"id,omitempty"`
	Action    string `json:"action"`
	Permalink string `json:"permalink,omitempty"`
	Error     string `json:"error,omitempty"`
}

// StepResponse is the outcome of the front page binding.
type StepResponse struct {
	Attempted bool   `json:"attempted"`
	Error     string `json:"error,omitempty"`
}

// MenuResultResponse is the outcome of the menu bootstrap.
type MenuResultResponse struct {
	Outcome    string `json:"outcome"`
	MenuID     int64  `json:"menu_id,omitempty"`
	ItemsAdded int    `json:"items_added"`
	Error      string `json:"error,omitempty"`
}

func toPlanResponse(plan model.DeployPlan) PlanResponse {
	pages := make([]PlannedPageResponse, 0, len(plan.Pages))
	for _, p := range plan.Pages {
		pages = append(pages, PlannedPageResponse{Title: p.Title, Slug: p.Slug})
	}
	items := make([]string, 0, len(plan.Menu.Items))
	for _, it := range plan.Menu.Items {
		items = append(items, it.Slug)
	}
	return PlanResponse{
		Pages:     pages,
		FrontPage: plan.FrontSlug,
		Menu: PlannedMenuResponse{
			Name:     plan.Menu.Name,
			Location: plan.Menu.Location,
			Items:    items,
		},
	}
}

func toReportResponse(r *model.DeployReport) ReportResponse {
	pages := make([]PageResultResponse, 0, len(r.Pages))
	for _, p := range r.Pages {
		pages = append(pages, PageResultResponse{
			Title:     p.Title,
			Slug:      p.Slug,
			ID:        p.ID,
			Action:    string(p.Action),
			Permalink: p.Permalink,
			Error:     errString(p.Err),
		})
	}

	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return ReportResponse{
		RunID:      r.RunID,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: r.FinishedAt.UTC().Format(time.RFC3339),
		Failed:     r.Failed(),
		Fatal:      errString(r.Fatal),
		Pages:      pages,
		FrontPage: StepResponse{
			Attempted: r.FrontPage.Attempted,
			Error:     errString(r.FrontPage.Err),
		},
		Menu: MenuResultResponse{
			Outcome:    string(r.Menu.Outcome),
			MenuID:     r.Menu.MenuID,
			ItemsAdded: r.Menu.ItemsAdded,
			Error:      errString(r.Menu.Err),
		},
		Warnings: warnings,
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
