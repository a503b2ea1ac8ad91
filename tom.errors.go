package tom

import (
	"context"
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/lightframe/go-tom/internal"
)

// ErrorKind classifies fatal template errors.
type ErrorKind = internal.ErrorKind

// Error kinds
const (
	KindTemplateNotFound  = internal.KindTemplateNotFound
	KindMalformedTag      = internal.KindMalformedTag
	KindUnknownFilter     = internal.KindUnknownFilter
	KindInvalidComparison = internal.KindInvalidComparison
	KindParse             = internal.KindParse
	KindCircularExtends   = internal.KindCircularExtends
	KindFilterFailed      = internal.KindFilterFailed
	KindInternal          = internal.KindInternal
)

// Sentinel errors. Every error returned by the engine matches the sentinel
// of its kind with errors.Is.
var (
	ErrTemplateNotFound    = internal.ErrTemplateNotFound
	ErrMalformedTag        = internal.ErrMalformedTag
	ErrUnknownFilter       = internal.ErrUnknownFilter
	ErrInvalidComparison   = internal.ErrInvalidComparison
	ErrParse               = internal.ErrParse
	ErrCircularExtends     = internal.ErrCircularExtends
	ErrFilterFailed        = internal.ErrFilterFailed
	ErrInternal            = internal.ErrInternal
	ErrInvalidTemplateName = errors.New(ErrMsgInvalidTemplateName)
)

// TemplateError carries the kind, location and cause of a template failure.
// It is reachable from any engine error with errors.As.
type TemplateError = internal.TemplateError

// Position represents a location in template source.
type Position = internal.Position

// errorCode maps an error kind to its cuserr code.
func errorCode(kind ErrorKind) string {
	switch kind {
	case KindTemplateNotFound:
		return ErrCodeTemplateNotFound
	case KindMalformedTag:
		return ErrCodeMalformedTag
	case KindUnknownFilter:
		return ErrCodeUnknownFilter
	case KindInvalidComparison:
		return ErrCodeInvalidComparison
	case KindParse:
		return ErrCodeParse
	case KindCircularExtends:
		return ErrCodeCircularExtends
	case KindFilterFailed:
		return ErrCodeFilterFailed
	default:
		return ErrCodeInternal
	}
}

// wrapError converts an engine error into a *cuserr.CustomError carrying
// kind, template, tag and position metadata. The original error stays in the
// chain so errors.Is and errors.As keep working.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if te, ok := internal.AsTemplateError(err); ok {
		return cuserr.WrapStdError(err, errorCode(te.Kind), ErrMsgTemplateFailed).
			WithMetadata(MetaKeyKind, string(te.Kind)).
			WithMetadata(MetaKeyTemplate, te.Template).
			WithMetadata(MetaKeyTag, te.Tag).
			WithMetadata(MetaKeyLine, strconv.Itoa(te.Position.Line)).
			WithMetadata(MetaKeyColumn, strconv.Itoa(te.Position.Column))
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return cuserr.WrapStdError(err, ErrCodeCanceled, ErrMsgRenderCanceled)
	}
	var ce *cuserr.CustomError
	if errors.As(err, &ce) {
		return err
	}
	return cuserr.WrapStdError(err, ErrCodeInternal, ErrMsgRenderFailed).
		WithMetadata(MetaKeyKind, string(KindInternal))
}

// KindOf returns the kind of a template error, or false if err does not
// come from template processing.
func KindOf(err error) (ErrorKind, bool) {
	if te, ok := internal.AsTemplateError(err); ok {
		return te.Kind, true
	}
	return "", false
}

// LoaderError represents a template loading failure.
type LoaderError struct {
	Message string
	Name    string
	Cause   error
}

// Error implements the error interface.
func (e *LoaderError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + strconv.Quote(e.Name)
	}
	if e.Cause != nil && e.Cause != ErrTemplateNotFound && e.Cause != ErrInvalidTemplateName {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *LoaderError) Unwrap() error {
	return e.Cause
}

// NewTemplateNotFoundError creates the error loaders return for unknown names.
func NewTemplateNotFoundError(name string) error {
	return &LoaderError{
		Message: ErrMsgTemplateNotFound,
		Name:    name,
		Cause:   ErrTemplateNotFound,
	}
}

// NewInvalidTemplateNameError creates an error for names that are empty or
// try to escape the loader roots.
func NewInvalidTemplateNameError(name string) error {
	return &LoaderError{
		Message: ErrMsgInvalidTemplateName,
		Name:    name,
		Cause:   ErrInvalidTemplateName,
	}
}

// NewLoaderReadError creates an error for a template that exists but could
// not be read.
func NewLoaderReadError(name string, cause error) error {
	return &LoaderError{
		Message: ErrMsgLoaderReadFailed,
		Name:    name,
		Cause:   cause,
	}
}

// NewRegistryError creates an error for a failed filter or tag registration.
func NewRegistryError(msg, name string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRegistry, msg).
		WithMetadata(MetaKeyName, name)
}

// NewConfigError creates a configuration error.
func NewConfigError(msg, field string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyField, field)
}

// NewLoaderDriverNotFoundError creates an error for an unknown loader driver.
func NewLoaderDriverNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyDriver, ErrMsgLoaderDriverNotFound).
		WithMetadata(MetaKeyDriver, name)
}
