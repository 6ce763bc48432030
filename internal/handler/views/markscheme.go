package views

import (
	"context"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/mockpaper/internal/i18n"
	"github.com/pavelanni/mockpaper/internal/model"
)

// markCodes is the mark scheme legend in display order.
var markCodes = []struct{ code, labelID string }{
	{"M1", "LegendMethod"},
	{"A1", "LegendAccuracy"},
	{"ft", "LegendFollowThrough"},
	{"AG", "LegendAnswerGiven"},
	{"R1", "LegendReasoning"},
}

// MarkScheme renders the examiner-facing mark scheme. The header repeats the
// exam's title, subtitle and total marks.
func MarkScheme(exam model.ExamDocument, ms model.MarkSchemeDocument) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<article class="doc mark-scheme" data-doc="markscheme"`)
		h.attr("data-title", exam.Title)
		h.raw(`><header class="doc-header"><div class="kicker">`)
		h.text(appI18n.T(ctx, "MarkSchemeKicker"))
		h.raw(`</div><h1>`)
		h.text(exam.Title)
		h.raw(`</h1><div class="subtitle">`)
		h.text(exam.Subtitle)
		h.raw(` · `)
		h.text(appI18n.Tp(ctx, "MarksTotal", int(exam.TotalMarks)))
		h.raw(`</div></header>`)

		h.raw(`<div class="legend">`)
		for _, m := range markCodes {
			h.raw(`<span><b class="mark-code">`)
			h.text(m.code)
			h.raw(`</b> `)
			h.text(appI18n.T(ctx, m.labelID))
			h.raw(`</span>`)
		}
		h.raw(`</div>`)

		for _, q := range ms.Questions {
			h.raw(`<section class="question"><h2>`)
			h.text(appI18n.Td(ctx, "QuestionN", map[string]any{"Number": int(q.Number)}))
			h.raw(`</h2>`)
			for _, p := range q.Parts {
				markSchemePart(ctx, h, p)
			}
			h.raw(`</section>`)
		}

		h.raw(`<footer class="doc-footer">`)
		h.text(appI18n.T(ctx, "MarkSchemeFooter"))
		h.raw(`</footer></article>`)
	})
}

func markSchemePart(ctx context.Context, h *htmlWriter, p model.MarkSchemePart) {
	h.raw(`<div class="ms-part"><div class="ms-part-label">`)
	h.text(appI18n.Td(ctx, "PartLabel", map[string]any{"Label": p.Label}))
	h.raw(`</div><div class="solution">`)
	mathText(h, "", p.Solution)
	h.raw(`</div>`)

	if len(p.MarksBreakdown) > 0 {
		h.raw(`<div class="breakdown">`)
		for _, m := range p.MarksBreakdown {
			h.raw(`<span class="chip">`)
			mathText(h, "", m)
			h.raw(`</span>`)
		}
		h.raw(`</div>`)
	}
	if p.Answer != "" {
		h.raw(`<div class="answer"><span class="answer-label">`)
		h.text(appI18n.T(ctx, "Answer"))
		h.raw(`</span> <b>`)
		mathText(h, "", p.Answer)
		h.raw(`</b></div>`)
	}
	if p.ExaminerNote != "" {
		h.raw(`<div class="examiner-note">⚠ `)
		h.text(appI18n.T(ctx, "ExaminerNote"))
		h.raw(` `)
		mathText(h, "", p.ExaminerNote)
		h.raw(`</div>`)
	}
	h.raw(`</div>`)
}
