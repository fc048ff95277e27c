package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/nebuludik/coinchesite/internal/adapter/driving/web/viewmodel"
)

// SitePage renders a stored page with the site navigation. The body is
// written as-is: catalogue assets are trusted and overrides were sanitized on
// load.
func SitePage(data vm.SitePageViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(data.Title)
		h.raw(` – Coinche de l&#39;Espace</title></head><body class="page page-`)
		h.text(data.Slug)
		h.raw(`"><header class="site-header"><p class="site-title"><a href="/">Coinche de l&#39;Espace</a></p>`)
		if len(data.Nav) > 0 {
			h.raw(`<nav class="main-navigation"><ul class="menu">`)
			for _, item := range data.Nav {
				h.raw(`<li class="menu-item`)
				if item.Active {
					h.raw(` current-menu-item`)
				}
				h.raw(`"><a href="`)
				h.text(string(templ.URL(item.Href)))
				h.raw(`">`)
				h.text(item.Title)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul></nav>`)
		}
		h.raw(`</header><main class="site-main"><article class="entry-content">`)
		h.raw(data.BodyHTML)
		h.raw(`</article></main></body></html>`)
		return h.err
	})
}

// NotFound renders the preview 404 page.
func NotFound(path string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"><title>Page introuvable</title></head>`)
		h.raw(`<body class="error404"><main class="site-main"><h1>Page introuvable</h1><p>`)
		h.text(path)
		h.raw(`</p><p><a href="/">Retour à l&#39;accueil</a></p></main></body></html>`)
		return h.err
	})
}
