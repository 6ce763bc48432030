package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Level is an IB Mathematics course and level.
type Level string

const (
	LevelAAHL Level = "AA HL"
	LevelAASL Level = "AA SL"
	LevelAIHL Level = "AI HL"
	LevelAISL Level = "AI SL"
)

// IsHigher reports whether the level denotes a Higher Level course.
func (l Level) IsHigher() bool {
	return strings.Contains(string(l), "HL")
}

// PaperType selects the style of exam paper.
type PaperType string

const (
	PaperNoCalculator PaperType = "Paper 1 (No Calculator)"
	PaperCalculator   PaperType = "Paper 2 (Calculator)"
	PaperMixed        PaperType = "Mixed / Custom"
)

// NoCalculator reports whether the paper forbids calculators.
func (p PaperType) NoCalculator() bool {
	return p == PaperNoCalculator
}

// Difficulty represents how demanding the generated questions are.
type Difficulty string

const (
	DifficultyStandard    Difficulty = "Standard"
	DifficultyChallenging Difficulty = "Challenging"
	DifficultyStretch     Difficulty = "Exam Stretch"
)

// Levels, PaperTypes and Difficulties list the accepted values in display order.
var (
	Levels       = []Level{LevelAAHL, LevelAASL, LevelAIHL, LevelAISL}
	PaperTypes   = []PaperType{PaperNoCalculator, PaperCalculator, PaperMixed}
	Difficulties = []Difficulty{DifficultyStandard, DifficultyChallenging, DifficultyStretch}
)

// Form limits.
const (
	MinQuestions   = 3
	MaxQuestions   = 10
	MinTotalMarks  = 20
	MaxTotalMarks  = 120
	MaxNotesLength = 500
)

// Count is an integer that also accepts numeric strings when decoded from JSON.
// Values that are not whole numbers decode as 0.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			*c = 0
			return nil
		}
		s = strings.TrimSpace(unq)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		*c = 0
		return nil
	}
	*c = Count(f)
	return nil
}

// ExamConfig holds the exam parameters submitted by the generation form.
type ExamConfig struct {
	Level           Level      `json:"level" validate:"oneof='AA HL' 'AA SL' 'AI HL' 'AI SL'"`
	PaperType       PaperType  `json:"paperType" validate:"oneof='Paper 1 (No Calculator)' 'Paper 2 (Calculator)' 'Mixed / Custom'"`
	Difficulty      Difficulty `json:"difficulty" validate:"oneof='Standard' 'Challenging' 'Exam Stretch'"`
	Topics          []string   `json:"topics" validate:"required,min=1,dive,ib_topic"`
	NumQuestions    Count      `json:"numQuestions" validate:"min=3,max=10"`
	TotalMarks      Count      `json:"totalMarks" validate:"min=20,max=120"`
	AdditionalNotes string     `json:"additionalNotes,omitempty" validate:"max=500"`
}

// DefaultExamConfig returns the values the form starts with.
func DefaultExamConfig() ExamConfig {
	return ExamConfig{
		Level:        LevelAAHL,
		PaperType:    PaperNoCalculator,
		Difficulty:   DifficultyStandard,
		NumQuestions: 5,
		TotalMarks:   60,
	}
}

// GenerationResult is the exam and mark scheme pair returned by the
// generation service. Both documents are passed through unmodified.
type GenerationResult struct {
	Exam       json.RawMessage
	MarkScheme json.RawMessage

	// raw is the complete object as received, including any extra keys.
	raw json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler. The input must be a JSON object.
func (g *GenerationResult) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("generation result is null")
	}
	g.Exam = fields["exam"]
	g.MarkScheme = fields["markScheme"]
	g.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (g GenerationResult) MarshalJSON() ([]byte, error) {
	if len(g.raw) > 0 {
		return g.raw, nil
	}
	return json.Marshal(struct {
		Exam       json.RawMessage `json:"exam,omitempty"`
		MarkScheme json.RawMessage `json:"markScheme,omitempty"`
	}{g.Exam, g.MarkScheme})
}

// Paper is a stored generation: the sanitized request and the service's result.
type Paper struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	ClientID  string           `json:"client_id"`
	Title     string           `json:"title"`
	Config    ExamConfig       `json:"config"`
	Result    GenerationResult `json:"result"`
}

// PaperSummary is the listing view of a stored paper.
type PaperSummary struct {
	ID           string     `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	Title        string     `json:"title"`
	Level        Level      `json:"level"`
	PaperType    PaperType  `json:"paper_type"`
	Difficulty   Difficulty `json:"difficulty"`
	NumQuestions int        `json:"num_questions"`
	TotalMarks   int        `json:"total_marks"`
}
