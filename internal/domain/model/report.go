package model

import "time"

// PageResult is the outcome of upserting one PageSpec.
// ID is zero whenever Err is set.
type PageResult struct {
	Title     string
	Slug      string
	ID        int64
	Action    UpsertAction
	Permalink string
	Err       error
}

// OK reports whether the page was written.
func (r PageResult) OK() bool {
	return r.Err == nil && r.ID != 0
}

// StepResult is the outcome of a single non-page step.
type StepResult struct {
	Attempted bool
	Err       error
}

// MenuResult is the outcome of the menu bootstrap.
type MenuResult struct {
	Outcome    MenuOutcome
	MenuID     int64
	ItemsAdded int
	Err        error
}

// DeployReport collects every step result of one deployment run.
// A run never aborts early except when Fatal is set before any step.
type DeployReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Pages      []PageResult
	FrontPage  StepResult
	Menu       MenuResult
	Warnings   []string
	Fatal      error
}

// PageBySlug returns the result for slug, if any.
func (r *DeployReport) PageBySlug(slug string) (PageResult, bool) {
	for _, p := range r.Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return PageResult{}, false
}

// Failed reports whether any step produced an error.
func (r *DeployReport) Failed() bool {
	if r.Fatal != nil || r.FrontPage.Err != nil || r.Menu.Err != nil {
		return true
	}
	for _, p := range r.Pages {
		if p.Err != nil {
			return true
		}
	}
	return false
}
