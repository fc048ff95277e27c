package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/nebuludik/coinchesite/internal/adapter/driving/web/viewmodel"
)

// SetupForm renders the confirmation form. Submitting it posts coinche_run=1
// with the CSRF token back to /setup.
func SetupForm(data vm.SetupViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Coinche de l&#39;Espace — Déploiement</h1>`)
		if data.StoreError != "" {
			h.raw(`<p class="warn">`)
			h.text(data.StoreError)
			h.raw(`</p>`)
		}
		h.raw(`<p>Ce déploiement va créer ou mettre à jour :</p><ul>`)
		for _, p := range data.Pages {
			h.raw(`<li>Page <strong>`)
			h.text(p.Title)
			h.raw(`</strong>`)
			if p.IsFront {
				h.raw(` (page d&#39;accueil)`)
			}
			switch {
			case !p.StatusKnown:
			case p.Exists:
				h.raw(` <span class="state">mise à jour</span>`)
			default:
				h.raw(` <span class="state">création</span>`)
			}
			h.raw(`</li>`)
		}
		h.raw(`<li>Menu de navigation <strong>`)
		h.text(data.MenuName)
		h.raw(`</strong>`)
		if data.MenuExists {
			h.raw(` <span class="state">déjà existant, inchangé</span>`)
		}
		h.raw(`</li></ul>`)
		h.raw(`<p class="warn">Pages existantes → <strong>mises à jour</strong>. Pages absentes → <strong>créées</strong>.</p>`)
		h.raw(`<form method="POST" action="/setup">`)
		h.raw(`<input type="hidden" name="coinche_run" value="1">`)
		h.raw(`<input type="hidden" name="csrf_token" value="`)
		h.text(data.CSRFToken)
		h.raw(`"><button type="submit" class="btn">Déployer</button></form>`)
		return h.err
	})
}
