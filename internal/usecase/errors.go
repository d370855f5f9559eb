package usecase

import (
	"errors"
	"fmt"

	"vehicle-booking/internal/data/entity"
	"vehicle-booking/pkg/utils"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("booking conflicts with an existing booking")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrUnavailable   = errors.New("service unavailable")
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError carries per-field messages keyed by json field name.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrValidation, e.Message, utils.FormatValidationErrors(e.Fields))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

func fieldError(field, message string) error {
	return &ValidationError{Message: message, Fields: map[string]string{field: message}}
}

// ConflictError lists every active booking blocking a candidate.
type ConflictError struct {
	Conflicts []*entity.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s (%d conflicting)", ErrConflict, len(e.Conflicts))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// unavailable wraps a store fault so handlers answer 503 while the cause
// stays in the chain for logging.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
