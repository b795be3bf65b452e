package codegen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrValidation        = errors.New("codegen: validation failed")
	ErrUnknownConvention = errors.New("codegen: unknown convention")
	ErrArchive           = errors.New("codegen: archive encoding failed")
)

// ValidationError reports a malformed or semantically invalid diagram.
// Errors holds the full list when it comes from a convention's validator;
// Message alone is used for the normalizer's first structural defect.
type ValidationError struct {
	Message string
	Errors  []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	if e.Message == "" {
		return strings.Join(e.Errors, "; ")
	}
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError carrying the given error list.
func NewValidationError(message string, errs ...string) *ValidationError {
	return &ValidationError{Message: message, Errors: errs}
}

// UnknownConventionError is returned when no convention is registered under Name.
type UnknownConventionError struct {
	Name string
}

func (e *UnknownConventionError) Error() string {
	return fmt.Sprintf("unknown convention %q", e.Name)
}

func (e *UnknownConventionError) Is(target error) bool {
	return target == ErrUnknownConvention
}

// ArchiveError wraps a failure while encoding the archive.
type ArchiveError struct {
	Entry string
	Cause error
}

func (e *ArchiveError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("archive entry %s: %v", e.Entry, e.Cause)
	}
	return fmt.Sprintf("archive: %v", e.Cause)
}

func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

func (e *ArchiveError) Is(target error) bool {
	return target == ErrArchive
}
