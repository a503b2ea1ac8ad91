package internal

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes & < > " and ' as HTML entities.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Evaluator resolves variable expressions of the form path|filter|filter:arg.
type Evaluator struct {
	filters    *FilterRegistry
	autoEscape bool
	logger     *zap.Logger
}

// NewEvaluator creates an evaluator that applies filters from the registry.
func NewEvaluator(filters *FilterRegistry, autoEscape bool, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if filters == nil {
		filters = NewFilterRegistry(logger)
	}
	return &Evaluator{
		filters:    filters,
		autoEscape: autoEscape,
		logger:     logger,
	}
}

// filterCall is one parsed pipeline stage.
type filterCall struct {
	name string
	arg  string
}

// Evaluate resolves expr for output. Textual values are escaped once before
// any filter runs. Collections and structs without filters are returned as
// is; Render escapes their text.
func (e *Evaluator) Evaluate(expr string, scope Scope) (any, error) {
	path, filters := splitPipeline(expr)
	value := e.ResolvePath(path, scope)
	if e.autoEscape && IsText(value) && (len(filters) > 0 || !IsComposite(value)) {
		value = EscapeHTML(Stringify(value))
	}
	return e.applyFilters(value, filters)
}

// Resolve evaluates expr without escaping, for comparisons and counts.
func (e *Evaluator) Resolve(expr string, scope Scope) (any, error) {
	path, filters := splitPipeline(expr)
	return e.applyFilters(e.ResolvePath(path, scope), filters)
}

// Render evaluates expr and stringifies the result.
func (e *Evaluator) Render(expr string, scope Scope) (string, error) {
	v, err := e.Evaluate(expr, scope)
	if err != nil {
		return "", err
	}
	if e.autoEscape && IsComposite(v) {
		return EscapeHTML(Stringify(v)), nil
	}
	return Stringify(v), nil
}

// ResolvePath resolves a filterless path. Misses yield nil.
func (e *Evaluator) ResolvePath(path string, scope Scope) any {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	if n, ok := parseNumber(path); ok {
		return n
	}
	if IsQuoted(path) {
		return Unquote(path)
	}
	if v, ok := scope.Lookup(path); ok {
		return v
	}
	if path == SiteRootToken {
		v, _ := scope.Reserved(SiteRootToken)
		return v
	}

	segments := strings.Split(path, PathSeparator)
	current, ok := scope.Lookup(segments[0])
	if !ok {
		current, ok = scope.Reserved(segments[0])
	}
	if !ok {
		return nil
	}

	for _, seg := range segments[1:] {
		next, found := walkSegment(current, seg)
		if !found {
			e.logger.Debug(LogMsgPathMiss, zap.String(LogFieldExpression, path), zap.String(LogFieldArg, seg))
			return nil
		}
		current = next
	}
	return current
}

// walkSegment steps one path segment: index, then member, then method.
func walkSegment(current any, seg string) (any, bool) {
	if v, ok := IndexValue(current, seg); ok {
		return v, true
	}
	if v, ok := MemberValue(current, seg); ok {
		return v, true
	}
	if v, ok := CallMethod(current, seg); ok {
		return v, true
	}
	return nil, false
}

// parseNumber accepts integer literals; decimals are truncated. Literals
// outside the int range are not numbers.
func parseNumber(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if strings.Trim(s, "0123456789.-+eE") != "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f >= math.MaxInt || f < math.MinInt {
		return 0, false
	}
	return int(f), true
}

func (e *Evaluator) applyFilters(value any, filters []filterCall) (any, error) {
	if len(filters) == 0 {
		return value, nil
	}
	current := Stringify(value)
	for _, fc := range filters {
		fn, ok := e.filters.Get(fc.name)
		if !ok {
			return nil, &TemplateError{
				Kind:        KindUnknownFilter,
				Message:     ErrMsgUnknownFilter + " " + strconv.Quote(fc.name),
				Suggestions: FindSimilarStrings(fc.name, e.filters.List(), DefaultMaxSuggestions),
			}
		}
		out, err := fn(current, fc.arg)
		if err != nil {
			return nil, &TemplateError{
				Kind:    KindFilterFailed,
				Message: ErrMsgFilterFailed + " " + strconv.Quote(fc.name),
				Cause:   err,
			}
		}
		current = out
	}
	return current, nil
}

// splitPipeline splits expr on "|" outside quotes into a path and filters.
func splitPipeline(expr string) (string, []filterCall) {
	parts := splitOutsideQuotes(expr, '|')
	path := strings.TrimSpace(parts[0])
	var filters []filterCall
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, arg, _ := strings.Cut(part, FilterArgSeparator)
		filters = append(filters, filterCall{
			name: strings.TrimSpace(name),
			arg:  Unquote(strings.TrimSpace(arg)),
		})
	}
	return path, filters
}

func splitOutsideQuotes(s string, sep byte) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
