// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// PlannedPageViewModel is one line of the confirmation form.
type PlannedPageViewModel struct {
	Title   string
	Slug    string
	IsFront bool
	// Exists is true when the store already holds a page with this slug.
	// StatusKnown is false when the lookup failed.
	Exists      bool
	StatusKnown bool
}

// SetupViewModel holds everything the confirmation form renders.
type SetupViewModel struct {
	Pages      []PlannedPageViewModel
	MenuName   string
	MenuExists bool
	CSRFToken  string
	// StoreError is shown above the form when the store could not be queried.
	StoreError string
}

// LineKind selects the marker and colour of a report line.
type LineKind string

// Report line kinds.
const (
	LineOK   LineKind = "ok"
	LineErr  LineKind = "err"
	LineInfo LineKind = "info"
)

// ReportLineViewModel is one ✓, ✗ or → line of the deployment report.
type ReportLineViewModel struct {
	Kind LineKind
	Text string
}

// PermalinkViewModel is one entry of the permalink summary.
type PermalinkViewModel struct {
	Title string
	URL   string
}

// ReportViewModel holds presentation-ready data for the deployment report.
type ReportViewModel struct {
	RunID      string
	Duration   string
	Failed     bool
	Lines      []ReportLineViewModel
	Permalinks []PermalinkViewModel
}

// NavItemViewModel is one entry of the site navigation bar.
type NavItemViewModel struct {
	Title  string
	Href   string
	Active bool
}

// SitePageViewModel holds a stored page rendered for local preview.
type SitePageViewModel struct {
	Title    string
	Slug     string
	BodyHTML string
	Nav      []NavItemViewModel
}
