package internal

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Built-in filter names
const (
	FilterUppercase       = "uppercase"
	FilterLowercase       = "lowercase"
	FilterCapitalize      = "capitalize"
	FilterCapitaliseFirst = "capitalisefirst"
	FilterCapitalizeFirst = "capitalizefirst"
	FilterDefault         = "default"
	FilterSafe            = "safe"
	FilterStripTags       = "striptags"
	FilterSanitize        = "sanitize"
	FilterMarkdown        = "markdown"
	FilterTruncate        = "truncate"
	FilterSlugify         = "slugify"
	FilterTrim            = "trim"
)

// Filter error messages
const (
	ErrMsgTruncateArg = "truncate expects a non-negative integer length"
	ErrMsgMarkdown    = "markdown conversion failed"
)

const (
	truncateEllipsis = "..."
	slugSeparator    = '-'
)

var (
	strictPolicy *bluemonday.Policy
	ugcPolicy    *bluemonday.Policy
	markdown     goldmark.Markdown
	initOnce     sync.Once
)

func initFilterDeps() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
		ugcPolicy = bluemonday.UGCPolicy()
		markdown = goldmark.New()
	})
}

// RegisterBuiltinFilters registers every built-in filter.
func RegisterBuiltinFilters(r *FilterRegistry) {
	r.MustRegister(FilterUppercase, filterUppercase)
	r.MustRegister(FilterLowercase, filterLowercase)
	r.MustRegister(FilterCapitalize, filterCapitalize)
	r.MustRegister(FilterCapitaliseFirst, filterCapitaliseFirst)
	r.MustRegister(FilterCapitalizeFirst, filterCapitaliseFirst)
	r.MustRegister(FilterDefault, filterDefault)
	r.MustRegister(FilterSafe, filterSafe)
	r.MustRegister(FilterStripTags, filterStripTags)
	r.MustRegister(FilterSanitize, filterSanitize)
	r.MustRegister(FilterMarkdown, filterMarkdown)
	r.MustRegister(FilterTruncate, filterTruncate)
	r.MustRegister(FilterSlugify, filterSlugify)
	r.MustRegister(FilterTrim, filterTrim)
}

func filterUppercase(value, _ string) (string, error) {
	return strings.ToUpper(value), nil
}

func filterLowercase(value, _ string) (string, error) {
	return strings.ToLower(value), nil
}

// filterCapitalize title-cases the first rune of the value and every rune
// following whitespace. Punctuation and entities do not start a word.
func filterCapitalize(value, _ string) (string, error) {
	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	b.Grow(len(value))
	wordStart := true
	for _, r := range value {
		if wordStart && !unicode.IsSpace(r) {
			b.WriteString(caser.String(string(r)))
		} else {
			b.WriteRune(r)
		}
		wordStart = unicode.IsSpace(r)
	}
	return b.String(), nil
}

func filterCapitaliseFirst(value, _ string) (string, error) {
	r, size := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return value, nil
	}
	return string(unicode.ToUpper(r)) + value[size:], nil
}

// filterDefault substitutes arg for "" and "0".
func filterDefault(value, arg string) (string, error) {
	if value == "" || value == "0" {
		return arg, nil
	}
	return value, nil
}

// filterSafe reverses the automatic HTML escaping.
func filterSafe(value, _ string) (string, error) {
	return html.UnescapeString(value), nil
}

func filterStripTags(value, _ string) (string, error) {
	initFilterDeps()
	return strictPolicy.Sanitize(value), nil
}

func filterSanitize(value, _ string) (string, error) {
	initFilterDeps()
	return ugcPolicy.Sanitize(value), nil
}

// filterMarkdown renders the unescaped value as markdown and sanitizes the
// resulting HTML.
func filterMarkdown(value, _ string) (string, error) {
	initFilterDeps()
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(html.UnescapeString(value)), &buf); err != nil {
		return "", fmt.Errorf(ErrFmtWithCause, ErrMsgMarkdown, err)
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}

// filterTruncate shortens the value to arg runes and appends an ellipsis.
func filterTruncate(value, arg string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 0 {
		return "", fmt.Errorf(ErrFmtTagMessage, ErrMsgTruncateArg, arg)
	}
	if utf8.RuneCountInString(value) <= n {
		return value, nil
	}
	return string([]rune(value)[:n]) + truncateEllipsis, nil
}

// filterSlugify folds accents and joins alphanumeric runs with dashes.
func filterSlugify(value, _ string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, html.UnescapeString(value))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && sb.Len() > 0 {
				sb.WriteRune(slugSeparator)
			}
			pendingSep = false
			sb.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return sb.String(), nil
}

// filterTrim strips surrounding whitespace, or the characters in arg.
func filterTrim(value, arg string) (string, error) {
	if arg == "" {
		return strings.TrimSpace(value), nil
	}
	return strings.Trim(value, arg), nil
}
