package ir

import (
	"fmt"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Unwrap classifies every document validation failure as invalid input.
func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// newValidationError creates a new ValidationError.
func newValidationError(path, message string) error {
	return &ValidationError{Path: path, Message: message}
}

// ValidateDocument validates a Document and returns all validation errors.
// Only what the compiler relies on is checked: every span names a layer and
// its offsets lie inside the text with Begin <= End.
func ValidateDocument(d *Document) []error {
	var errs []error
	if d == nil {
		return []error{newValidationError("document", "document is nil")}
	}

	for i, s := range d.Spans {
		path := fmt.Sprintf("spans[%d]", i)
		if s == nil {
			errs = append(errs, newValidationError(path, "span is nil"))
			continue
		}
		errs = append(errs, ValidateSpan(s, len(d.Text), path)...)
	}

	return errs
}

// ValidateSpan validates a single span against a text of textLen bytes.
func ValidateSpan(s *Span, textLen int, path string) []error {
	var errs []error

	if s.Layer == "" {
		errs = append(errs, newValidationError(path+".layer", "layer is required"))
	}
	if s.Begin < 0 {
		errs = append(errs, newValidationError(path+".begin",
			fmt.Sprintf("begin %d is negative", s.Begin)))
	}
	if s.End < s.Begin {
		errs = append(errs, newValidationError(path,
			fmt.Sprintf("end %d precedes begin %d", s.End, s.Begin)))
	}
	if s.End > textLen {
		errs = append(errs, newValidationError(path+".end",
			fmt.Sprintf("end %d exceeds text length %d", s.End, textLen)))
	}

	return errs
}
