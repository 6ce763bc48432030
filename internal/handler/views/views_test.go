package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/mockpaper/internal/i18n"
	"github.com/pavelanni/mockpaper/internal/model"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	if err := appI18n.Init("en"); err != nil {
		t.Fatalf("i18n init: %v", err)
	}
	ctx := appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer("en"))
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestAnswerLines(t *testing.T) {
	tests := []struct {
		marks int
		want  int
	}{
		{0, 2},
		{1, 2},
		{2, 3},
		{3, 4},
		{4, 5},
		{5, 6},
		{10, 12}, // 10*1.1 rounds up past 11 in float64
		{11, 13},
		{-1, 2},
		{36, 40},
		{37, 40},
		{120, 40},
		{2147483647, 40},
	}
	for _, tt := range tests {
		if got := AnswerLines(tt.marks); got != tt.want {
			t.Errorf("AnswerLines(%d) = %d, want %d", tt.marks, got, tt.want)
		}
	}
}

func sampleExam() model.ExamDocument {
	return model.ExamDocument{
		Title:        "IB Mathematics AA HL Mock Examination",
		Subtitle:     "Paper 1 (No Calculator)",
		Duration:     "90 minutes",
		TotalMarks:   7,
		Instructions: []string{"Answer all questions.", "Show all working clearly."},
		Questions: []model.ExamQuestion{{
			Number:     1,
			Topic:      "Differentiation",
			TotalMarks: 7,
			Context:    "Let $f(x) = x^2 < 3$.",
			Parts: []model.ExamPart{
				{Label: "a", Text: "Find $f'(x)$.", Marks: 3, CommandTerm: "Find"},
				{Label: "b", Text: "Hence show that <script>alert(1)</script>", Marks: 1},
				{Label: "c", Text: "Sketch.", Marks: 3},
			},
		}},
	}
}

func TestExamPaper(t *testing.T) {
	out := render(t, ExamPaper(sampleExam()))

	for _, want := range []string{
		`data-title="IB Mathematics AA HL Mock Examination"`,
		"<h1>IB Mathematics AA HL Mock Examination</h1>",
		"Paper 1 (No Calculator)",
		"Duration: <b>90 minutes</b>",
		"Total Marks: <b>7</b>",
		"Questions: <b>1</b>",
		"Instructions to Candidates",
		"<li><span class=\"math \">Answer all questions.</span></li>",
		`<div class="topic-badge">Differentiation</div>`,
		"Let $f(x) = x^2 &lt; 3$.",
		"(a)",
		"[3 marks]",
		"[1 mark]",
		"[7 marks]",
		"End of Examination",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exam paper should contain %q", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("question text must be escaped")
	}
	// 4 + 2 + 4 answer lines for 3, 1 and 3 marks.
	if n := strings.Count(out, `class="answer-line"`); n != 10 {
		t.Errorf("got %d answer lines, want 10", n)
	}
}

func TestExamPaperHugeMarks(t *testing.T) {
	var result model.GenerationResult
	body := `{"exam":{"questions":[{"parts":[{"marks":"5000000"},{"marks":2147483647}]}]}}`
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	exam, _, err := result.Documents()
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}

	out := render(t, ExamPaper(exam))
	if n := strings.Count(out, `class="answer-line"`); n != 2*MaxAnswerLines {
		t.Errorf("got %d answer lines, want %d", n, 2*MaxAnswerLines)
	}
	if len(out) > 64<<10 {
		t.Errorf("rendered %d bytes for a two-part exam", len(out))
	}
}

func TestExamPaperEmpty(t *testing.T) {
	out := render(t, ExamPaper(model.ExamDocument{}))
	if !strings.Contains(out, "Questions: <b>0</b>") {
		t.Error("empty exam should report zero questions")
	}
	if strings.Contains(out, "topic-badge") {
		t.Error("empty exam should have no questions")
	}
}

func TestMarkScheme(t *testing.T) {
	ms := model.MarkSchemeDocument{Questions: []model.MarkSchemeQuestion{{
		Number: 1,
		Parts: []model.MarkSchemePart{
			{
				Label:          "a",
				Solution:       "$f'(x) = 2x$",
				MarksBreakdown: []string{"M1 for power rule", "A1 for 2x"},
				Answer:         "$2x$",
				ExaminerNote:   "Watch the sign",
			},
			{Label: "b", Solution: "Trivial"},
		},
	}}}
	out := render(t, MarkScheme(sampleExam(), ms))

	for _, want := range []string{
		"International Baccalaureate · Mark Scheme",
		"Paper 1 (No Calculator) · 7 marks",
		`<b class="mark-code">M1</b> Method`,
		`<b class="mark-code">A1</b> Accuracy`,
		`<b class="mark-code">ft</b> Follow-through`,
		`<b class="mark-code">AG</b> Answer given`,
		`<b class="mark-code">R1</b> Reasoning`,
		"<h2>Question 1</h2>",
		"Part (a)",
		"Part (b)",
		"M1 for power rule",
		"Answer:",
		"Examiner note:",
		"Watch the sign",
		"End of Mark Scheme",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("mark scheme should contain %q", want)
		}
	}
	if n := strings.Count(out, `class="answer"`); n != 1 {
		t.Errorf("got %d answers, want 1 (empty answers are omitted)", n)
	}
	if n := strings.Count(out, `class="examiner-note"`); n != 1 {
		t.Errorf("got %d examiner notes, want 1", n)
	}
}

func TestIndexPage(t *testing.T) {
	cfg := model.DefaultExamConfig()
	cfg.Topics = []string{"Vectors"}
	out := render(t, IndexPage(cfg))

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>MockPaper AI</title>",
		"KaTeX/0.16.9/katex.min.js",
		"KaTeX/0.16.9/contrib/auto-render.min.js",
		"jspdf/2.5.1/jspdf.umd.min.js",
		`src="/static/app.js"`,
		`name="level" value="AA HL" checked`,
		`name="paperType" value="Paper 1 (No Calculator)" checked`,
		`name="difficulty" value="Standard" checked`,
		`value="Vectors" checked`,
		`value="Integration (definite &amp; indefinite)"`,
		"Algebra &amp; Functions",
		`name="numQuestions" min="3" max="10" step="1" value="5"`,
		`name="totalMarks" min="20" max="120" step="5" value="60"`,
		`maxlength="500"`,
		`data-msg-select-topic="Please select at least one topic."`,
		"Generate Mock Exam Paper",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("index page should contain %q", want)
		}
	}
	if n := strings.Count(out, `name="topics"`); n != len(model.AllTopics()) {
		t.Errorf("got %d topic checkboxes, want %d", n, len(model.AllTopics()))
	}
}
