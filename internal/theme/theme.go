// Package theme carries the site's dark stylesheet and the hook that emits it
// into the head of every rendered HTML page.
package theme

import (
	"bytes"
	_ "embed"
	"net/http"
	"strings"
)

// StyleID is the id attribute of the injected style element.
const StyleID = "coinche-dark-theme"

//go:embed coinche-dark-theme.css
var stylesheet string

// Stylesheet returns the fixed dark-theme CSS.
func Stylesheet() string {
	return stylesheet
}

// StyleTag returns the stylesheet wrapped in its <style> element.
func StyleTag() string {
	return `<style id="` + StyleID + `">` + "\n" + stylesheet + "</style>"
}

// InjectHead inserts the style element right before the first </head> of doc.
// Documents without a head, or already carrying the element, are returned unchanged.
func InjectHead(doc []byte) []byte {
	if bytes.Contains(doc, []byte(`id="`+StyleID+`"`)) {
		return doc
	}

	idx := indexHeadClose(doc)
	if idx < 0 {
		return doc
	}

	tag := StyleTag()
	out := make([]byte, 0, len(doc)+len(tag))
	out = append(out, doc[:idx]...)
	out = append(out, tag...)
	out = append(out, doc[idx:]...)
	return out
}

// indexHeadClose finds </head> ignoring ASCII case. Only A-Z are folded so
// offsets in the folded copy match doc whatever multi-byte text precedes the
// tag.
func indexHeadClose(doc []byte) int {
	folded := make([]byte, len(doc))
	for i, c := range doc {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		folded[i] = c
	}
	return bytes.Index(folded, []byte("</head>"))
}

// ServeStylesheet writes the raw CSS.
func ServeStylesheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(stylesheet))
}

// MUPlugin returns a WordPress must-use plugin that echoes the stylesheet on
// wp_head. Drop it into wp-content/mu-plugins/ to theme a remote site.
func MUPlugin() string {
	escape := strings.NewReplacer(`\`, `\\`, `'`, `\'`)

	var b strings.Builder
	b.WriteString("<?php\n")
	b.WriteString("/**\n * Must-Use Plugin: Coinche de l'Espace dark theme.\n * Loaded automatically, no activation needed.\n */\n")
	b.WriteString("add_action( 'wp_head', function() {\n")
	b.WriteString("    echo '")
	b.WriteString(escape.Replace(StyleTag()))
	b.WriteString("';\n} );\n")
	return b.String()
}
