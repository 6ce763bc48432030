package views

import (
	"context"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/mockpaper/internal/i18n"
)

// Versions of the browser libraries loaded from the CDN.
const (
	KatexVersion = "0.16.9"
	JSPDFVersion = "2.5.1"

	cdnBase = "https://cdnjs.cloudflare.com/ajax/libs/"
)

// clientMessages are the labels app.js needs, passed as data attributes.
var clientMessages = []struct{ attr, id string }{
	{"data-msg-select-topic", "SelectTopic"},
	{"data-msg-server-error", "ServerError"},
	{"data-msg-pdf-failed", "PDFFailed"},
	{"data-msg-pdf-loading", "PDFLoading"},
	{"data-msg-exporting", "Exporting"},
	{"data-msg-export-pdf", "ExportPDF"},
}

// Page wraps body in the HTML document shell.
func Page(body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		title := appI18n.T(ctx, "AppTitle")
		h.raw(`<!DOCTYPE html><html><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		h.raw(`<link rel="stylesheet" href="` + cdnBase + `KaTeX/` + KatexVersion + `/katex.min.css">`)
		h.raw(`<script defer src="` + cdnBase + `KaTeX/` + KatexVersion + `/katex.min.js"></script>`)
		h.raw(`<script defer src="` + cdnBase + `KaTeX/` + KatexVersion + `/contrib/auto-render.min.js"></script>`)
		h.raw(`<script defer src="` + cdnBase + `jspdf/` + JSPDFVersion + `/jspdf.umd.min.js"></script>`)
		h.raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script defer src="/static/app.js"></script>`)
		h.raw(`</head><body`)
		for _, m := range clientMessages {
			h.attr(m.attr, appI18n.T(ctx, m.id))
		}
		h.raw(`>`)
		h.raw(`<header class="app-header"><div class="logo">IB</div><div><div class="app-title">`)
		h.text(title)
		h.raw(`</div><div class="app-tagline">`)
		h.text(appI18n.T(ctx, "AppTagline"))
		h.raw(`</div></div><div id="math-loading" class="muted">`)
		h.text(appI18n.T(ctx, "LoadingMath"))
		h.raw(`</div></header>`)
		h.component(ctx, body)
		h.raw(`</body></html>`)
	})
}
