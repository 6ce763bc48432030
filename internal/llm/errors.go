package llm

import (
	"errors"
	"fmt"
)

// Upstream failure kinds, matched with errors.Is.
var (
	ErrUpstreamAuth     = errors.New("generation service rejected the credentials")
	ErrUpstreamRejected = errors.New("generation service rejected the request")
	ErrUpstreamOther    = errors.New("generation service call failed")
)

// Reply failures.
var (
	ErrUnparseableResponse = errors.New("reply contains no JSON object")
	ErrSchemaMismatch      = errors.New("reply is missing the exam or mark scheme")
)

// ServiceError describes a failed call to the generation service.
type ServiceError struct {
	Kind       error
	StatusCode int
	// Message is the service's own description of the failure.
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
