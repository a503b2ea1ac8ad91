package tom

import (
	"github.com/lightframe/go-tom/internal"
)

// Node is a lexical unit of a template: text, comment, variable or tag.
type Node = internal.Node

// NodeKind identifies the type of a Node.
type NodeKind = internal.NodeKind

// Node kinds
const (
	NodeText     = internal.NodeText
	NodeComment  = internal.NodeComment
	NodeVariable = internal.NodeVariable
	NodeTag      = internal.NodeTag
)

// FilterFunc transforms the string produced by the previous pipeline stage.
// arg is the text after ":" in name:arg, unquoted, or empty.
type FilterFunc = internal.FilterFunc

// TagHandler renders one tag invocation.
type TagHandler = internal.TagHandler

// TagFactory constructs a fresh handler for every invocation.
type TagFactory = internal.TagFactory

// TagFunc adapts a function to the TagHandler interface.
type TagFunc = internal.TagFunc

// Invocation is what a TagHandler receives: the tag name, its parsed
// arguments, its body and access to the render.
type Invocation = internal.Invocation

// Args are the parsed arguments of a tag.
type Args = internal.Args

// Arg is a single tag argument.
type Arg = internal.Arg

// Step is the result of rendering one body node through Invocation.Step.
type Step = internal.Step

// Sentinel marks handlers whose output is a position marker for an
// enclosing tag rather than content.
type Sentinel = internal.Sentinel

// Indexer lets context values answer dotted path segments themselves.
type Indexer = internal.Indexer

// Countable lets context values report their size to count.
type Countable = internal.Countable

// Cursor lets context values be iterated by foreach.
type Cursor = internal.Cursor

// Stringify converts a resolved value to its output text.
func Stringify(v any) string {
	return internal.Stringify(v)
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v any) bool {
	return internal.Truthy(v)
}

// EscapeHTML escapes & < > " and ' the way variable output is escaped.
func EscapeHTML(s string) string {
	return internal.EscapeHTML(s)
}

// ParseArgs parses raw tag arguments.
func ParseArgs(raw string) Args {
	return internal.ParseArgs(raw)
}
