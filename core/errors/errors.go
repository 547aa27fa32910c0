// Package errors provides standardized error types and helpers for annodex.
//
// Every failure the compiler can report unwraps to one of the sentinels below,
// so callers can branch with errors.Is and still print the full context.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrMalformedSegmentation indicates overlapping, empty or non-monotonic base units
	ErrMalformedSegmentation = errors.New("malformed segmentation")
	// ErrUnsupportedFeatureKind indicates a feature kind with no registered codec
	ErrUnsupportedFeatureKind = errors.New("unsupported feature kind")
	// ErrReservedTagCollision indicates a layer tag equal to the reserved structural tag
	ErrReservedTagCollision = errors.New("reserved tag collision")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("already exists")
	// ErrInternal indicates an internal system error
	ErrInternal = errors.New("internal error")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// Offsets is a half-open character range used in error context.
type Offsets struct {
	Begin int
	End   int
}

func (o Offsets) String() string {
	return fmt.Sprintf("[%d,%d)", o.Begin, o.End)
}

// SegmentationError reports base units that cannot form a position index.
type SegmentationError struct {
	DocumentID string  // Document being compiled, if known
	Index      int     // Index of the offending unit in text order
	Previous   Offsets // Unit preceding the offending one (zero for empty units)
	Unit       Offsets // The offending unit
	Reason     string  // "overlap" or "empty"
}

func (e *SegmentationError) Error() string {
	prefix := "malformed segmentation"
	if e.DocumentID != "" {
		prefix = fmt.Sprintf("document %s: malformed segmentation", e.DocumentID)
	}
	if e.Reason == "empty" {
		return fmt.Sprintf("%s: unit %d %s is empty", prefix, e.Index, e.Unit)
	}
	return fmt.Sprintf("%s: unit %d %s overlaps %s", prefix, e.Index, e.Unit, e.Previous)
}

func (e *SegmentationError) Unwrap() error {
	return ErrMalformedSegmentation
}

// FeatureKindError reports a feature whose declared kind has no codec.
type FeatureKindError struct {
	DocumentID string // Document being compiled, if known
	Layer      string // Layer declaring the feature, if known
	Feature    string // Feature name, if known
	Kind       string // The unregistered kind
}

func (e *FeatureKindError) Error() string {
	msg := fmt.Sprintf("unsupported feature kind %q", e.Kind)
	if e.Layer != "" {
		msg = fmt.Sprintf("%s for %s.%s", msg, e.Layer, e.Feature)
	}
	if e.DocumentID != "" {
		msg = fmt.Sprintf("document %s: %s", e.DocumentID, msg)
	}
	return msg
}

func (e *FeatureKindError) Unwrap() error {
	return ErrUnsupportedFeatureKind
}

// TagCollisionError reports a layer whose index tag is reserved.
type TagCollisionError struct {
	Layer string // Layer name
	Tag   string // Sanitized tag that collided
}

func (e *TagCollisionError) Error() string {
	return fmt.Sprintf("layer %s: tag %q is reserved", e.Layer, e.Tag)
}

func (e *TagCollisionError) Unwrap() error {
	return ErrReservedTagCollision
}

// DuplicateCodecError reports a second codec registered for the same kind.
type DuplicateCodecError struct {
	Kind string
}

func (e *DuplicateCodecError) Error() string {
	return fmt.Sprintf("codec for kind %q already registered", e.Kind)
}

func (e *DuplicateCodecError) Unwrap() error {
	return ErrAlreadyExists
}

// ValueError reports a feature value that its codec cannot encode.
type ValueError struct {
	DocumentID string // Document being compiled, if known
	SpanID     string // Span carrying the value, if known
	Feature    string // Feature name, if known
	Kind       string // Declared kind
	Value      string // Printable form of the value
	Err        error  // Underlying error, if any
}

func (e *ValueError) Error() string {
	msg := fmt.Sprintf("cannot encode %s as %s", e.Value, e.Kind)
	if e.Feature != "" {
		msg = fmt.Sprintf("feature %s: %s", e.Feature, msg)
	}
	if e.SpanID != "" {
		msg = fmt.Sprintf("span %s: %s", e.SpanID, msg)
	}
	if e.DocumentID != "" {
		msg = fmt.Sprintf("document %s: %s", e.DocumentID, msg)
	}
	return msg
}

func (e *ValueError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "layer", "document", "codec")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "JSON", "XML", "catalog")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Reason returns a stable, low-cardinality label for err, suitable for log
// fields and metric labels. A nil error yields "".
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedSegmentation):
		return "malformed_segmentation"
	case errors.Is(err, ErrUnsupportedFeatureKind):
		return "unsupported_feature_kind"
	case errors.Is(err, ErrReservedTagCollision):
		return "reserved_tag_collision"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	default:
		return "internal"
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
