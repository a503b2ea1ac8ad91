package tom

import (
	"context"

	"github.com/lightframe/go-tom/internal"
	"go.uber.org/zap"
)

// ValidationSeverity indicates the severity of a validation issue.
type ValidationSeverity int

const (
	// SeverityError indicates an issue that makes rendering fail
	SeverityError ValidationSeverity = iota
	// SeverityWarning indicates a potential issue that still renders
	SeverityWarning
)

// Severity name constants
const (
	SeverityNameError   = "error"
	SeverityNameWarning = "warning"
)

// String returns the severity name.
func (s ValidationSeverity) String() string {
	if s == SeverityWarning {
		return SeverityNameWarning
	}
	return SeverityNameError
}

// ValidationResult contains the results of template validation.
type ValidationResult struct {
	issues []ValidationIssue
}

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity    ValidationSeverity
	Kind        ErrorKind
	Message     string
	Template    string
	TagName     string
	Position    Position
	Suggestions []string
}

// Issues returns all validation issues found.
func (r *ValidationResult) Issues() []ValidationIssue {
	return r.issues
}

// Errors returns only issues with error severity.
func (r *ValidationResult) Errors() []ValidationIssue {
	var errs []ValidationIssue
	for _, issue := range r.issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}

// Warnings returns only issues with warning severity.
func (r *ValidationResult) Warnings() []ValidationIssue {
	var warnings []ValidationIssue
	for _, issue := range r.issues {
		if issue.Severity == SeverityWarning {
			warnings = append(warnings, issue)
		}
	}
	return warnings
}

// HasErrors returns true if there are any error-severity issues.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasWarnings returns true if there are any warning-severity issues.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

// IsValid returns true if there are no error-severity issues.
func (r *ValidationResult) IsValid() bool {
	return !r.HasErrors()
}

func (r *ValidationResult) add(severity ValidationSeverity, err error) {
	te, ok := internal.AsTemplateError(err)
	if !ok {
		r.issues = append(r.issues, ValidationIssue{Severity: severity, Kind: KindInternal, Message: err.Error()})
		return
	}
	r.issues = append(r.issues, ValidationIssue{
		Severity:    severity,
		Kind:        te.Kind,
		Message:     te.Message,
		Template:    te.Template,
		TagName:     te.Tag,
		Position:    te.Position,
		Suggestions: te.Suggestions,
	})
}

// Validate checks a template without rendering it. sourceOrName follows the
// same rules as Compile. Tokenizer and inheritance failures are reported as
// issues; only loader failures for a named template and cancellation are
// returned as errors.
func (e *Engine) Validate(ctx context.Context, sourceOrName string) (*ValidationResult, error) {
	name, source, err := e.source(ctx, sourceOrName)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{}
	nodes, err := e.resolve(ctx, name, source)
	if err != nil {
		if ctx.Err() != nil {
			return nil, wrapError(err)
		}
		result.add(SeverityError, err)
		return result, nil
	}

	for _, issue := range internal.Validate(nodes, e.tags, e.filters) {
		severity := SeverityError
		if issue.Warning {
			severity = SeverityWarning
		}
		result.add(severity, issue.Err)
	}
	if result.HasErrors() {
		e.logger.Debug(LogMsgValidateFailed,
			zap.String(LogFieldTemplate, name),
			zap.Int(LogFieldEntries, len(result.issues)),
		)
	}
	return result, nil
}
