package model

import (
	"encoding/json"
	"fmt"
)

// ExamDocument is the exam paper as described by the generation prompt's
// schema. Any field may be missing; renderers treat zero values as absent.
type ExamDocument struct {
	Title        string         `json:"title"`
	Subtitle     string         `json:"subtitle"`
	Duration     string         `json:"duration"`
	TotalMarks   Count          `json:"totalMarks"`
	Instructions []string       `json:"instructions"`
	Questions    []ExamQuestion `json:"questions"`
}

// ExamQuestion is a numbered question made of lettered parts.
type ExamQuestion struct {
	Number     Count      `json:"number"`
	Topic      string     `json:"topic"`
	TotalMarks Count      `json:"totalMarks"`
	Context    string     `json:"context"`
	Parts      []ExamPart `json:"parts"`
}

// ExamPart is a single answerable part of a question.
type ExamPart struct {
	Label       string `json:"label"`
	Text        string `json:"text"`
	Marks       Count  `json:"marks"`
	CommandTerm string `json:"command_term"`
}

// MarkSchemeDocument parallels ExamDocument with worked solutions.
type MarkSchemeDocument struct {
	Questions []MarkSchemeQuestion `json:"questions"`
}

// MarkSchemeQuestion holds the solutions for one exam question.
type MarkSchemeQuestion struct {
	Number Count            `json:"number"`
	Parts  []MarkSchemePart `json:"parts"`
}

// MarkSchemePart is the marking guidance for one part.
type MarkSchemePart struct {
	Label          string   `json:"label"`
	Solution       string   `json:"solution"`
	MarksBreakdown []string `json:"marks_breakdown"`
	Answer         string   `json:"answer"`
	ExaminerNote   string   `json:"examiner_note"`
}

// Documents decodes the passthrough payloads into their typed views.
// A missing document decodes as empty.
func (g GenerationResult) Documents() (ExamDocument, MarkSchemeDocument, error) {
	var exam ExamDocument
	var ms MarkSchemeDocument
	if len(g.Exam) > 0 {
		if err := json.Unmarshal(g.Exam, &exam); err != nil {
			return exam, ms, fmt.Errorf("decode exam: %w", err)
		}
	}
	if len(g.MarkScheme) > 0 {
		if err := json.Unmarshal(g.MarkScheme, &ms); err != nil {
			return exam, ms, fmt.Errorf("decode mark scheme: %w", err)
		}
	}
	return exam, ms, nil
}
