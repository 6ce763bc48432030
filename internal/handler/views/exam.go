package views

import (
	"context"
	"math"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/mockpaper/internal/i18n"
	"github.com/pavelanni/mockpaper/internal/model"
)

// MaxAnswerLines caps the ruled lines printed under a single part.
const MaxAnswerLines = 40

// AnswerLines returns the number of ruled answer lines printed under a part
// worth marks: 10% more lines than marks, at least two and at most
// MaxAnswerLines.
func AnswerLines(marks int) int {
	if marks >= MaxAnswerLines {
		return MaxAnswerLines
	}
	n := int(math.Ceil(float64(marks) * 1.1))
	return min(max(2, n), MaxAnswerLines)
}

// mathText writes s escaped inside a span that KaTeX auto-render typesets.
func mathText(h *htmlWriter, class, s string) {
	h.raw(`<span class="math ` + class + `">`)
	h.text(s)
	h.raw(`</span>`)
}

// ExamPaper renders the candidate-facing exam document.
func ExamPaper(exam model.ExamDocument) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<article class="doc exam-paper" data-doc="exam"`)
		h.attr("data-title", exam.Title)
		h.raw(`><header class="doc-header"><div class="kicker">`)
		h.text(appI18n.T(ctx, "ExamKicker"))
		h.raw(`</div><h1>`)
		h.text(exam.Title)
		h.raw(`</h1><div class="subtitle">`)
		h.text(exam.Subtitle)
		h.raw(`</div></header>`)

		h.raw(`<div class="doc-bar"><span>`)
		h.text(appI18n.T(ctx, "Duration"))
		h.raw(`: <b>`)
		h.text(exam.Duration)
		h.raw(`</b></span><span>`)
		h.text(appI18n.T(ctx, "TotalMarks"))
		h.raw(`: <b>`)
		h.num(int(exam.TotalMarks))
		h.raw(`</b></span><span>`)
		h.text(appI18n.T(ctx, "Questions"))
		h.raw(`: <b>`)
		h.num(len(exam.Questions))
		h.raw(`</b></span></div>`)

		h.raw(`<section class="instructions"><div class="instructions-title">`)
		h.text(appI18n.T(ctx, "Instructions"))
		h.raw(`</div><ul>`)
		for _, inst := range exam.Instructions {
			h.raw(`<li>`)
			mathText(h, "", inst)
			h.raw(`</li>`)
		}
		h.raw(`</ul></section>`)

		for _, q := range exam.Questions {
			examQuestion(ctx, h, q)
		}

		h.raw(`<footer class="doc-footer">`)
		h.text(appI18n.T(ctx, "ExamFooter"))
		h.raw(`</footer></article>`)
	})
}

func examQuestion(ctx context.Context, h *htmlWriter, q model.ExamQuestion) {
	h.raw(`<section class="question"><div class="question-head"><div class="question-number">`)
	h.num(int(q.Number))
	h.raw(`</div><div class="question-context">`)
	if q.Context != "" {
		mathText(h, "context", q.Context)
	}
	h.raw(`</div>`)
	if q.Topic != "" {
		h.raw(`<div class="topic-badge">`)
		h.text(q.Topic)
		h.raw(`</div>`)
	}
	h.raw(`</div>`)

	for _, p := range q.Parts {
		h.raw(`<div class="part"><div class="part-head"><span class="part-label">(`)
		h.text(p.Label)
		h.raw(`)</span><span class="marks">`)
		h.text(appI18n.Tp(ctx, "MarksN", int(p.Marks)))
		h.raw(`</span></div><div class="part-text">`)
		mathText(h, "", p.Text)
		h.raw(`</div><div class="answer-lines">`)
		for range AnswerLines(int(p.Marks)) {
			h.raw(`<div class="answer-line"></div>`)
		}
		h.raw(`</div></div>`)
	}

	h.raw(`<div class="question-total">`)
	h.text(appI18n.Tp(ctx, "MarksN", int(q.TotalMarks)))
	h.raw(`</div></section>`)
}
