package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrInvalidState  = errors.New("invalid state")
	ErrUpstream      = errors.New("upstream failure")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// StateError reports that an entity is not in the right state for the
// requested transition. Distinct from validation errors so callers can tell
// "fix your input" apart from "this isn't the right time".
type StateError struct {
	Entity  string
	Current string
	Action  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s in state %s: cannot %s", e.Entity, e.Current, e.Action)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

// NewStateError creates a StateError.
func NewStateError(entity, current, action string) *StateError {
	return &StateError{Entity: entity, Current: current, Action: action}
}

// ConflictError reports a uniqueness or already-processed conflict and carries
// a reference to the pre-existing record where one is known.
type ConflictError struct {
	Entity     string
	Message    string
	ExistingID uuid.UUID
}

func (e *ConflictError) Error() string {
	if e.ExistingID != uuid.Nil {
		return fmt.Sprintf("%s conflict: %s (existing %s)", e.Entity, e.Message, e.ExistingID)
	}
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Message)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError creates a ConflictError referencing an existing record.
func NewConflictError(entity, message string, existingID uuid.UUID) *ConflictError {
	return &ConflictError{Entity: entity, Message: message, ExistingID: existingID}
}

// UpstreamError reports a collaborator failure (persistence, text generation).
type UpstreamError struct {
	Collaborator string
	Err          error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Collaborator, e.Err)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// NewUpstreamError wraps a collaborator failure.
func NewUpstreamError(collaborator string, err error) *UpstreamError {
	return &UpstreamError{Collaborator: collaborator, Err: err}
}
