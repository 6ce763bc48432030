// Package prompts builds the instruction text sent to the generation service.
package prompts

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/mockpaper/internal/model"
)

//go:embed exam.tmpl
var examSource string

var examTemplate = template.Must(template.New("exam").Parse(examSource))

var notesStripper = strings.NewReplacer(
	"<", "", ">", "",
	"{", "", "}", "",
	"[", "", "]", "",
	`\`, "",
)

var difficultyNotes = map[model.Difficulty]string{
	model.DifficultyStandard:    "— accessible, routine IB questions",
	model.DifficultyChallenging: "— above average, multi-step reasoning required",
	model.DifficultyStretch:     "— hardest IB style, discriminating questions for top candidates",
}

// ExamData holds template data for the exam generation prompt.
type ExamData struct {
	Level          model.Level
	PaperType      model.PaperType
	Topics         string
	Difficulty     model.Difficulty
	DifficultyNote string
	TotalMarks     int
	NumQuestions   int
	Notes          string
	NoCalculator   bool
	Higher         bool
}

// Build renders the generation prompt for a validated config. The output
// depends only on cfg, so equal configs always produce identical prompts.
func Build(cfg model.ExamConfig) (string, error) {
	note, ok := difficultyNotes[cfg.Difficulty]
	if !ok {
		note = difficultyNotes[model.DifficultyStretch]
	}

	data := ExamData{
		Level:          cfg.Level,
		PaperType:      cfg.PaperType,
		Topics:         strings.Join(cfg.Topics, ", "),
		Difficulty:     cfg.Difficulty,
		DifficultyNote: note,
		TotalMarks:     int(cfg.TotalMarks),
		NumQuestions:   int(cfg.NumQuestions),
		Notes:          cfg.AdditionalNotes,
		NoCalculator:   cfg.PaperType.NoCalculator(),
		Higher:         cfg.Level.IsHigher(),
	}

	var buf bytes.Buffer
	if err := examTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SanitizeNotes strips markup and template characters from free-text teacher
// notes, caps them at model.MaxNotesLength runes and trims whitespace.
func SanitizeNotes(notes string) string {
	notes = notesStripper.Replace(notes)
	if utf8.RuneCountInString(notes) > model.MaxNotesLength {
		notes = string([]rune(notes)[:model.MaxNotesLength])
	}
	return strings.TrimSpace(notes)
}
