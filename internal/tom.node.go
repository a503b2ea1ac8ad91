package internal

import (
	"fmt"
	"strings"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// NodeKind identifies the lexical class of a node
type NodeKind int

// Node kind constants
const (
	NodeText NodeKind = iota
	NodeComment
	NodeVariable
	NodeTag
)

// Node kind names for debugging
const (
	NodeKindNameText     = "TEXT"
	NodeKindNameComment  = "COMMENT"
	NodeKindNameVariable = "VARIABLE"
	NodeKindNameTag      = "TAG"
)

// String returns the string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case NodeComment:
		return NodeKindNameComment
	case NodeVariable:
		return NodeKindNameVariable
	case NodeTag:
		return NodeKindNameTag
	default:
		return NodeKindNameText
	}
}

// Node is one lexical unit of a template: plain text, a comment, a variable
// expression or a tag. Raw always holds the exact source text, so joining the
// Raw of a token stream reproduces the template.
type Node struct {
	Kind     NodeKind
	Raw      string   // Exact source text including delimiters
	Content  string   // Trimmed expression between delimiters (text: same as Raw)
	Template string   // Name of the template the node was read from
	Pos      Position // Source position
}

// String returns a human-readable representation of the node
func (n Node) String() string {
	return fmt.Sprintf("Node{%s: %q @ %s}", n.Kind, n.Raw, n.Pos)
}

// NewTextNode creates a text node
func NewTextNode(text string, pos Position) Node {
	return Node{Kind: NodeText, Raw: text, Content: text, Pos: pos}
}

// IsTag returns true if this is a tag node
func (n Node) IsTag() bool {
	return n.Kind == NodeTag
}

// IsText returns true if this is a text node
func (n Node) IsText() bool {
	return n.Kind == NodeText
}

// TagName returns the first word of a tag's content, or "" for other nodes.
func (n Node) TagName() string {
	if n.Kind != NodeTag {
		return ""
	}
	name, _, _ := strings.Cut(n.Content, " ")
	return name
}

// TagArgs returns the inline argument string following the tag name.
func (n Node) TagArgs() string {
	if n.Kind != NodeTag {
		return ""
	}
	_, args, _ := strings.Cut(n.Content, " ")
	return strings.TrimSpace(args)
}

// IsTagNamed returns true if the node is a tag with the given name
func (n Node) IsTagNamed(name string) bool {
	return n.Kind == NodeTag && n.TagName() == name
}

// JoinRaw concatenates the raw source of nodes.
func JoinRaw(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.Raw)
	}
	return sb.String()
}
