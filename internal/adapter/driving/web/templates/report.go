package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/nebuludik/coinchesite/internal/adapter/driving/web/viewmodel"
)

var lineMarkers = map[vm.LineKind]string{
	vm.LineOK:   `<strong>✓</strong> `,
	vm.LineErr:  `<strong>✗</strong> `,
	vm.LineInfo: `→ `,
}

// Report renders the outcome of one deployment run.
func Report(data vm.ReportViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Coinche de l&#39;Espace — Résultat</h1>`)
		for _, line := range data.Lines {
			h.raw(`<p class="line line-`)
			h.text(string(line.Kind))
			h.raw(`">`)
			h.raw(lineMarkers[line.Kind])
			h.text(line.Text)
			h.raw(`</p>`)
		}

		if len(data.Permalinks) > 0 {
			h.raw(`<hr><h2>Permaliens</h2>`)
			for _, p := range data.Permalinks {
				h.raw(`<p class="line line-info">→ `)
				h.text(p.Title)
				h.raw(` : <a href="`)
				h.text(string(templ.URL(p.URL)))
				h.raw(`" target="_blank">`)
				h.text(p.URL)
				h.raw(`</a></p>`)
			}
		}

		h.raw(`<p class="run">Exécution `)
		h.text(data.RunID)
		h.raw(` · `)
		h.text(data.Duration)
		h.raw(`</p><p><a href="/setup">Relancer</a></p>`)
		return h.err
	})
}
