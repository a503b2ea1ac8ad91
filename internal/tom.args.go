package internal

import (
	"strings"

	"github.com/google/uuid"
)

// Arg is one positional tag argument. Named tokens (name:value) keep both
// parts; bare tokens are flags whose Value is the token text; quoted literals
// keep their quotes and are not flags.
type Arg struct {
	Name  string
	Value string
	Flag  bool
}

// IsNamed returns true if the argument was written as name:value
func (a Arg) IsNamed() bool {
	return a.Name != ""
}

// Args holds the parsed inline arguments of a tag.
type Args struct {
	Raw        string
	Positional []Arg
	Named      map[string]string
}

// ParseArgs splits a tag's inline argument string. Quoted segments are
// swapped for unique placeholders before the whitespace split and restored
// afterwards, so quoted spaces and colons survive intact.
func ParseArgs(raw string) Args {
	args := Args{
		Raw:   raw,
		Named: make(map[string]string),
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return args
	}

	protected, literals := protectQuoted(raw)
	restore := func(s string) string {
		for placeholder, literal := range literals {
			s = strings.ReplaceAll(s, placeholder, literal)
		}
		return s
	}

	for _, token := range strings.Fields(protected) {
		if _, isLiteral := literals[token]; isLiteral {
			args.Positional = append(args.Positional, Arg{Value: literals[token]})
			continue
		}
		name, value, found := strings.Cut(token, ArgSeparator)
		if found && name != "" {
			name, value = restore(name), restore(value)
			args.Named[name] = value
			args.Positional = append(args.Positional, Arg{Name: name, Value: value})
			continue
		}
		args.Positional = append(args.Positional, Arg{Value: restore(token), Flag: true})
	}
	return args
}

// protectQuoted replaces every quoted substring with a placeholder.
func protectQuoted(raw string) (string, map[string]string) {
	literals := make(map[string]string)
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch != '"' && ch != '\'' {
			sb.WriteByte(ch)
			continue
		}
		end := strings.IndexByte(raw[i+1:], ch)
		if end < 0 {
			sb.WriteString(raw[i:])
			break
		}
		literal := raw[i : i+end+2]
		placeholder := QuotePlaceholder + strings.ReplaceAll(uuid.NewString(), "-", "")
		literals[placeholder] = literal
		sb.WriteString(placeholder)
		i += end + 1
	}
	return sb.String(), literals
}

// Len returns the number of positional arguments
func (a Args) Len() int {
	return len(a.Positional)
}

// At returns the positional argument at index i.
func (a Args) At(i int) (Arg, bool) {
	if i < 0 || i >= len(a.Positional) {
		return Arg{}, false
	}
	return a.Positional[i], true
}

// Get returns the value of a named argument.
func (a Args) Get(name string) (string, bool) {
	v, ok := a.Named[name]
	return v, ok
}

// Has returns true if a named argument exists
func (a Args) Has(name string) bool {
	_, ok := a.Named[name]
	return ok
}

// HasFlag returns true if a bare flag token equal to name is present.
func (a Args) HasFlag(name string) bool {
	for _, arg := range a.Positional {
		if arg.Flag && arg.Value == name {
			return true
		}
	}
	return false
}

// IsQuoted returns true if s is wrapped in matching single or double quotes.
func IsQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '"' || first == '\'') && first == last
}

// Unquote strips one pair of matching quotes, if present.
func Unquote(s string) string {
	if IsQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}
