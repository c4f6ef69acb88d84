package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/portfolio-api/internal/validation"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("invalid credentials")
)

// ValidationErrors is a failed input check with one entry per field problem
type ValidationErrors struct {
	Errors []validation.ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return e.Errors[0].Message
}

// invalid wraps field errors, returning nil when there are none
func invalid(errs []validation.ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: errs}
}

func invalidField(field, message string) error {
	return &ValidationErrors{Errors: []validation.ValidationError{{Field: field, Message: message}}}
}

// RateLimitError is returned when a throttled action is attempted too often
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// RetryAfterSeconds is the whole-second Retry-After value
func (e *RateLimitError) RetryAfterSeconds() int {
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

// ConflictError is a 409 with a user-facing message
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrConflict) match
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func rateLimited(format string, retryAfter time.Duration, unit time.Duration) error {
	n := int(math.Ceil(float64(retryAfter) / float64(unit)))
	if n < 1 {
		n = 1
	}
	return &RateLimitError{Message: fmt.Sprintf(format, n), RetryAfter: retryAfter}
}
