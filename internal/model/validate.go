package model

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ib_topic", func(fl validator.FieldLevel) bool {
		return IsTopic(fl.Field().String())
	})
	return v
}

// Validate checks cfg against the fixed enumerations and ranges. Every
// violated constraint contributes exactly one message; an empty result means
// cfg is valid.
func Validate(cfg ExamConfig) []string {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	var msgs []string
	seen := make(map[string]bool)
	for _, fe := range fieldErrs {
		msg := validationMessage(fe)
		if seen[msg] {
			continue
		}
		seen[msg] = true
		msgs = append(msgs, msg)
	}
	return msgs
}

func validationMessage(fe validator.FieldError) string {
	if fe.Tag() == "ib_topic" {
		return "Unknown topic"
	}
	switch fe.StructField() {
	case "Level":
		return "Invalid level"
	case "PaperType":
		return "Invalid paperType"
	case "Difficulty":
		return "Invalid difficulty"
	case "Topics":
		return "Select at least one topic"
	case "NumQuestions":
		return "numQuestions must be 3–10"
	case "TotalMarks":
		return "totalMarks must be 20–120"
	case "AdditionalNotes":
		return "Notes too long"
	default:
		return fe.Field() + " is invalid"
	}
}
