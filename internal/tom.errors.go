package internal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies fatal template errors
type ErrorKind string

// Error kinds
const (
	KindTemplateNotFound  ErrorKind = "TEMPLATE_NOT_FOUND"
	KindMalformedTag      ErrorKind = "MALFORMED_TAG"
	KindUnknownFilter     ErrorKind = "UNKNOWN_FILTER"
	KindInvalidComparison ErrorKind = "INVALID_COMPARISON"
	KindParse             ErrorKind = "PARSE"
	KindCircularExtends   ErrorKind = "CIRCULAR_EXTENDS"
	KindFilterFailed      ErrorKind = "FILTER_FAILED"
	KindInternal          ErrorKind = "INTERNAL"
)

// Sentinel errors, one per kind. A *TemplateError matches its kind's sentinel
// with errors.Is.
var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrMalformedTag      = errors.New("malformed tag")
	ErrUnknownFilter     = errors.New("unknown filter")
	ErrInvalidComparison = errors.New("invalid comparison")
	ErrParse             = errors.New("template parse error")
	ErrCircularExtends   = errors.New("circular extends")
	ErrFilterFailed      = errors.New("filter failed")
	ErrInternal          = errors.New("internal template error")
)

// Sentinel returns the sentinel error for the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindTemplateNotFound:
		return ErrTemplateNotFound
	case KindMalformedTag:
		return ErrMalformedTag
	case KindUnknownFilter:
		return ErrUnknownFilter
	case KindInvalidComparison:
		return ErrInvalidComparison
	case KindParse:
		return ErrParse
	case KindCircularExtends:
		return ErrCircularExtends
	case KindFilterFailed:
		return ErrFilterFailed
	default:
		return ErrInternal
	}
}

// TemplateError is the single error type raised while tokenizing, resolving
// or rendering a template.
type TemplateError struct {
	Kind        ErrorKind
	Message     string
	Template    string
	Tag         string
	Position    Position
	Cause       error
	Suggestions []string
}

// NewTemplateError creates a new template error.
func NewTemplateError(kind ErrorKind, message string, pos Position) *TemplateError {
	return &TemplateError{
		Kind:     kind,
		Message:  message,
		Position: pos,
	}
}

// NewTemplateErrorWithCause creates a new template error with a cause.
func NewTemplateErrorWithCause(kind ErrorKind, message string, pos Position, cause error) *TemplateError {
	return &TemplateError{
		Kind:     kind,
		Message:  message,
		Position: pos,
		Cause:    cause,
	}
}

// NewNodeError creates an error located at the given node.
func NewNodeError(kind ErrorKind, message string, node Node) *TemplateError {
	return &TemplateError{
		Kind:     kind,
		Message:  message,
		Template: node.Template,
		Tag:      node.TagName(),
		Position: node.Pos,
	}
}

// WithTemplate sets the template name if none is set yet.
func (e *TemplateError) WithTemplate(name string) *TemplateError {
	if e.Template == "" {
		e.Template = name
	}
	return e
}

// WithTag sets the tag name.
func (e *TemplateError) WithTag(tag string) *TemplateError {
	e.Tag = tag
	return e
}

// WithSuggestions attaches "did you mean" candidates.
func (e *TemplateError) WithSuggestions(suggestions []string) *TemplateError {
	e.Suggestions = suggestions
	return e
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	var result string
	if e.Tag != "" {
		result = fmt.Sprintf(ErrFmtWithTagAndPosition, e.Message, e.Tag, e.Position.String())
	} else {
		result = fmt.Sprintf(ErrFmtWithPosition, e.Message, e.Position.String())
	}
	if e.Template != "" {
		result = fmt.Sprintf(ErrFmtWithTemplate, result, e.Template)
	}
	if len(e.Suggestions) > 0 {
		result = fmt.Sprintf(ErrFmtSuggestions, result, strings.Join(e.Suggestions, ", "))
	}
	if e.Cause != nil {
		result = fmt.Sprintf(ErrFmtWithCause, result, e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause error.
func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel of this error's kind.
func (e *TemplateError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// AsTemplateError extracts the outermost *TemplateError from err.
func AsTemplateError(err error) (*TemplateError, bool) {
	var te *TemplateError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
