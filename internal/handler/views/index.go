package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/mockpaper/internal/i18n"
	"github.com/pavelanni/mockpaper/internal/model"
)

// IndexPage renders the generator: the configuration form, the loading
// state and the empty result area filled in by app.js.
func IndexPage(cfg model.ExamConfig) templ.Component {
	return Page(component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<main id="config"><form id="config-form" novalidate>`)

		section(ctx, h, "SectionCourse", func() {
			for _, l := range model.Levels {
				choice(h, "level", string(l), l == cfg.Level)
			}
		})
		section(ctx, h, "SectionPaperType", func() {
			for _, p := range model.PaperTypes {
				choice(h, "paperType", string(p), p == cfg.PaperType)
			}
		})
		section(ctx, h, "SectionDifficulty", func() {
			for _, d := range model.Difficulties {
				choice(h, "difficulty", string(d), d == cfg.Difficulty)
			}
		})

		selected := make(map[string]bool, len(cfg.Topics))
		for _, t := range cfg.Topics {
			selected[t] = true
		}
		h.raw(`<section class="section"><div class="section-label">`)
		h.text(appI18n.T(ctx, "SectionTopics"))
		h.raw(` · <span id="topics-selected" data-template="`)
		h.text(appI18n.Tp(ctx, "TopicsSelected", 0))
		h.raw(`">`)
		h.text(appI18n.Tp(ctx, "TopicsSelected", len(cfg.Topics)))
		h.raw(`</span></div>`)
		for _, g := range model.TopicGroups {
			h.raw(`<fieldset class="topic-group"><legend>`)
			h.text(g.Name)
			h.raw(`</legend>`)
			for _, t := range g.Topics {
				h.raw(`<label class="topic"><input type="checkbox" name="topics"`)
				h.attr("value", t)
				if selected[t] {
					h.raw(` checked`)
				}
				h.raw(`> `)
				h.text(t)
				h.raw(`</label>`)
			}
			h.raw(`</fieldset>`)
		}
		h.raw(`</section>`)

		section(ctx, h, "SectionStructure", func() {
			slider(ctx, h, "numQuestions", "FieldQuestions", model.MinQuestions, model.MaxQuestions, 1, int(cfg.NumQuestions))
			slider(ctx, h, "totalMarks", "FieldTotalMarks", model.MinTotalMarks, model.MaxTotalMarks, 5, int(cfg.TotalMarks))
		})
		section(ctx, h, "SectionNotes", func() {
			h.raw(`<textarea name="additionalNotes" rows="3" maxlength="` + strconv.Itoa(model.MaxNotesLength) + `"`)
			h.attr("placeholder", appI18n.T(ctx, "NotesPlaceholder"))
			h.raw(`>`)
			h.text(cfg.AdditionalNotes)
			h.raw(`</textarea>`)
		})

		h.raw(`<div id="error" class="error" role="alert" hidden></div>`)
		h.raw(`<button type="submit" id="generate" class="primary">`)
		h.text(appI18n.T(ctx, "Generate"))
		h.raw(`</button></form></main>`)

		h.raw(`<main id="loading" class="loading" hidden><div class="spinner">⟳</div><div class="loading-title">`)
		h.text(appI18n.T(ctx, "Generating"))
		h.raw(`</div><p class="muted">`)
		h.text(appI18n.T(ctx, "GeneratingHint"))
		h.raw(`</p></main>`)

		h.raw(`<main id="result" hidden><nav class="toolbar">`)
		h.raw(`<button type="button" class="tab active" data-tab="exam">`)
		h.text(appI18n.T(ctx, "TabExam"))
		h.raw(`</button><button type="button" class="tab" data-tab="markscheme">`)
		h.text(appI18n.T(ctx, "TabMarkScheme"))
		h.raw(`</button><span class="spacer"></span><button type="button" id="new-exam">← `)
		h.text(appI18n.T(ctx, "NewExam"))
		h.raw(`</button><button type="button" id="export-pdf" class="primary">`)
		h.text(appI18n.T(ctx, "ExportPDF"))
		h.raw(`</button></nav>`)
		h.raw(`<div id="exam-doc" class="doc-slot"></div><div id="markscheme-doc" class="doc-slot" hidden></div></main>`)
	}))
}

func section(ctx context.Context, h *htmlWriter, labelID string, body func()) {
	h.raw(`<section class="section"><div class="section-label">`)
	h.text(appI18n.T(ctx, labelID))
	h.raw(`</div><div class="choices">`)
	body()
	h.raw(`</div></section>`)
}

func choice(h *htmlWriter, name, value string, checked bool) {
	h.raw(`<label class="choice"><input type="radio"`)
	h.attr("name", name)
	h.attr("value", value)
	if checked {
		h.raw(` checked`)
	}
	h.raw(`><span>`)
	h.text(value)
	h.raw(`</span></label>`)
}

func slider(ctx context.Context, h *htmlWriter, name, labelID string, lo, hi, step, value int) {
	h.raw(`<label class="slider"><span>`)
	h.text(appI18n.T(ctx, labelID))
	h.raw(`: <output`)
	h.attr("for", name)
	h.raw(`>`)
	h.num(value)
	h.raw(`</output></span><input type="range"`)
	h.attr("id", name)
	h.attr("name", name)
	h.attr("min", strconv.Itoa(lo))
	h.attr("max", strconv.Itoa(hi))
	h.attr("step", strconv.Itoa(step))
	h.attr("value", strconv.Itoa(value))
	h.raw(`></label>`)
}
