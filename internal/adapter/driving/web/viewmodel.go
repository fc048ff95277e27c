package web

import (
	"fmt"
	"time"

	vm "github.com/nebuludik/coinchesite/internal/adapter/driving/web/viewmodel"
	"github.com/nebuludik/coinchesite/internal/domain/model"
)

// pageStatus is what the store knows about one planned page before a run.
type pageStatus struct {
	exists bool
	known  bool
}

// toSetupViewModel lists the planned pages in menu order, the order the
// confirmation form presents them in. Pages absent from the menu follow.
func toSetupViewModel(plan model.DeployPlan, status map[string]pageStatus, menuExists bool, token string) vm.SetupViewModel {
	titles := make(map[string]string, len(plan.Pages))
	for _, p := range plan.Pages {
		titles[p.Slug] = p.Title
	}

	order := menuOrder(plan)
	pages := make([]vm.PlannedPageViewModel, 0, len(order))
	for _, slug := range order {
		st := status[slug]
		pages = append(pages, vm.PlannedPageViewModel{
			Title:       titles[slug],
			Slug:        slug,
			IsFront:     slug == plan.FrontSlug,
			Exists:      st.exists,
			StatusKnown: st.known,
		})
	}

	return vm.SetupViewModel{
		Pages:      pages,
		MenuName:   plan.Menu.Name,
		MenuExists: menuExists,
		CSRFToken:  token,
	}
}

// menuOrder returns the plan's page slugs in menu order, followed by the
// pages the menu does not link.
func menuOrder(plan model.DeployPlan) []string {
	planned := make(map[string]bool, len(plan.Pages))
	for _, p := range plan.Pages {
		planned[p.Slug] = true
	}

	order := make([]string, 0, len(plan.Pages))
	seen := make(map[string]bool, len(plan.Pages))
	for _, it := range plan.Menu.Items {
		if planned[it.Slug] && !seen[it.Slug] {
			order = append(order, it.Slug)
			seen[it.Slug] = true
		}
	}
	for _, p := range plan.Pages {
		if !seen[p.Slug] {
			order = append(order, p.Slug)
			seen[p.Slug] = true
		}
	}
	return order
}

// toReportViewModel turns a deployment report into the lines shown to the operator.
func toReportViewModel(report *model.DeployReport, plan model.DeployPlan) vm.ReportViewModel {
	out := vm.ReportViewModel{
		RunID:      report.RunID,
		Duration:   report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond).String(),
		Failed:     report.Failed(),
		Lines:      []vm.ReportLineViewModel{},
		Permalinks: []vm.PermalinkViewModel{},
	}
	add := func(kind vm.LineKind, format string, args ...any) {
		out.Lines = append(out.Lines, vm.ReportLineViewModel{Kind: kind, Text: fmt.Sprintf(format, args...)})
	}

	if report.Fatal != nil {
		add(vm.LineErr, "Store de contenu injoignable, rien n'a été modifié : %v", report.Fatal)
		return out
	}

	for _, p := range report.Pages {
		switch {
		case p.Err != nil:
			add(vm.LineErr, "%s : %v", p.Title, p.Err)
		case p.Action == model.UpsertActionCreated:
			add(vm.LineOK, "%s créée (ID: %d)", p.Title, p.ID)
		default:
			add(vm.LineOK, "%s mise à jour (ID: %d)", p.Title, p.ID)
		}
	}

	shown := map[string]bool{}
	if report.FrontPage.Attempted {
		if report.FrontPage.Err != nil {
			add(vm.LineErr, "Page d'accueil : %v", report.FrontPage.Err)
			shown[report.FrontPage.Err.Error()] = true
		} else {
			front := plan.FrontSlug
			if res, ok := report.PageBySlug(plan.FrontSlug); ok {
				front = res.Title
			}
			add(vm.LineOK, "Page d'accueil définie → %s", front)
		}
	}

	switch report.Menu.Outcome {
	case model.MenuOutcomeCreated:
		add(vm.LineOK, "Menu créé et attaché.")
	case model.MenuOutcomeSkipped:
		add(vm.LineInfo, "Menu déjà existant — pas de modification.")
	case model.MenuOutcomeRepaired:
		add(vm.LineOK, "Menu complété (%d élément(s) ajouté(s)).", report.Menu.ItemsAdded)
	case model.MenuOutcomeDeferred:
		add(vm.LineInfo, "Menu non créé : une page cible a échoué, relancez le déploiement.")
	case model.MenuOutcomeFailed:
		add(vm.LineErr, "Erreur création menu : %v", report.Menu.Err)
	}

	for _, w := range report.Warnings {
		if !shown[w] {
			add(vm.LineInfo, "%s", w)
		}
	}

	// Permalinks follow the menu, like the site navigation.
	listed := make(map[string]bool, len(report.Pages))
	addPermalink := func(p model.PageResult) {
		listed[p.Slug] = true
		if p.OK() && p.Permalink != "" {
			out.Permalinks = append(out.Permalinks, vm.PermalinkViewModel{Title: p.Title, URL: p.Permalink})
		}
	}
	for _, slug := range menuOrder(plan) {
		if p, ok := report.PageBySlug(slug); ok {
			addPermalink(p)
		}
	}
	for _, p := range report.Pages {
		if !listed[p.Slug] {
			addPermalink(p)
		}
	}

	return out
}

// toSitePageViewModel pairs a stored page with the navigation bar.
func toSitePageViewModel(page model.Page, nav []vm.NavItemViewModel) vm.SitePageViewModel {
	for i := range nav {
		nav[i].Active = nav[i].Href == "/"+page.Slug+"/"
	}
	return vm.SitePageViewModel{
		Title:    page.Title,
		Slug:     page.Slug,
		BodyHTML: page.Body,
		Nav:      nav,
	}
}
