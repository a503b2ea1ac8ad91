package internal

import (
	"strings"

	"go.uber.org/zap"
)

// delimiter pairs in the order they are probed at each position
var delimiters = []struct {
	open  string
	close string
	kind  NodeKind
	err   string
	empty string
}{
	{DelimTagOpen, DelimTagClose, NodeTag, ErrMsgUnterminatedTag, ErrMsgEmptyTag},
	{DelimVarOpen, DelimVarClose, NodeVariable, ErrMsgUnterminatedVariable, ErrMsgEmptyVariable},
	{DelimCommentOpen, DelimCommentClose, NodeComment, ErrMsgUnterminatedComment, ""},
}

// Lexer splits template source into a flat node sequence.
// Each delimited region ends at the first closing delimiter on the same line.
type Lexer struct {
	source   string
	template string
	pos      int // Current byte position
	line     int // Current line (1-indexed)
	column   int // Current column (1-indexed)
	logger   *zap.Logger
}

// NewLexer creates a lexer for source. template names the source in errors
// and node positions and may be empty for inline templates.
func NewLexer(source, template string, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)), zap.String(LogFieldTemplate, template))
	return &Lexer{
		source:   source,
		template: template,
		pos:      0,
		line:     1,
		column:   1,
		logger:   logger,
	}
}

// Tokenize processes the whole source. Concatenating Raw of the returned
// nodes reproduces the source exactly.
func (l *Lexer) Tokenize() ([]Node, error) {
	l.logger.Debug(LogMsgTokenizerStart)
	var nodes []Node

	for !l.isAtEnd() {
		matched := false
		for _, d := range delimiters {
			if !l.matchStr(d.open) {
				continue
			}
			node, err := l.scanDelimited(d.open, d.close, d.kind, d.err, d.empty)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			matched = true
			break
		}
		if matched {
			continue
		}

		if text := l.scanText(); text.Raw != "" {
			nodes = append(nodes, text)
		}
	}

	l.logger.Debug(LogMsgTokenizerEnd, zap.Int(LogFieldNodes, len(nodes)))
	return nodes, nil
}

// scanText consumes text up to the next opening delimiter.
func (l *Lexer) scanText() Node {
	start := l.currentPosition()
	begin := l.pos
	// Always consume at least one byte so a lone "{" makes progress.
	l.advance()
	for !l.isAtEnd() && !l.atOpenDelim() {
		l.advance()
	}
	node := NewTextNode(l.source[begin:l.pos], start)
	node.Template = l.template
	return node
}

// scanDelimited consumes one delimited region. The closing delimiter must
// appear on the same line as the opening one.
func (l *Lexer) scanDelimited(openDelim, closeDelim string, kind NodeKind, unterminated, empty string) (Node, error) {
	start := l.currentPosition()
	rest := l.source[l.pos+len(openDelim):]
	lineEnd := strings.IndexByte(rest, '\n')
	if lineEnd < 0 {
		lineEnd = len(rest)
	}
	idx := strings.Index(rest[:lineEnd], closeDelim)
	if idx < 0 {
		return Node{}, l.newError(unterminated, start)
	}

	inner := rest[:idx]
	raw := l.source[l.pos : l.pos+len(openDelim)+idx+len(closeDelim)]
	content := strings.TrimSpace(inner)
	if content == "" && empty != "" {
		return Node{}, l.newError(empty, start)
	}

	l.advanceN(len(raw))
	return Node{
		Kind:     kind,
		Raw:      raw,
		Content:  content,
		Template: l.template,
		Pos:      start,
	}, nil
}

// currentPosition returns the current position in the source
func (l *Lexer) currentPosition() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// isAtEnd returns true if we've consumed all input
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// advance moves to the next byte and updates position tracking
func (l *Lexer) advance() {
	if l.isAtEnd() {
		return
	}
	if l.source[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

// advanceN advances n bytes
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
}

// matchStr returns true if the remaining source starts with s
func (l *Lexer) matchStr(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}

// atOpenDelim returns true if any opening delimiter starts at the current position
func (l *Lexer) atOpenDelim() bool {
	for _, d := range delimiters {
		if l.matchStr(d.open) {
			return true
		}
	}
	return false
}

func (l *Lexer) newError(message string, pos Position) error {
	return &TemplateError{
		Kind:     KindParse,
		Message:  message,
		Template: l.template,
		Position: pos,
	}
}

// Tokenize is a convenience wrapper around NewLexer(...).Tokenize().
func Tokenize(source, template string, logger *zap.Logger) ([]Node, error) {
	return NewLexer(source, template, logger).Tokenize()
}
