package internal

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Runtime holds everything one render needs. It is created per render and is
// not safe for concurrent use.
type Runtime struct {
	ctx      context.Context
	tags     *TagRegistry
	eval     *Evaluator
	scope    Scope
	logger   *zap.Logger
	maxDepth int
}

// NewRuntime creates a render runtime. maxDepth <= 0 uses DefaultMaxDepth.
func NewRuntime(ctx context.Context, tags *TagRegistry, eval *Evaluator, scope Scope, logger *zap.Logger, maxDepth int) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Runtime{
		ctx:      ctx,
		tags:     tags,
		eval:     eval,
		scope:    scope,
		logger:   logger,
		maxDepth: maxDepth,
	}
}

// Render renders a resolved node sequence from the top level.
func (rt *Runtime) Render(nodes []Node) (string, error) {
	rt.logger.Debug(LogMsgRenderStart, zap.Int(LogFieldNodes, len(nodes)))
	root := &Invocation{rt: rt, body: nodes, hasBody: true}
	out, err := root.Evaluate()
	if err != nil {
		return "", err
	}
	rt.logger.Debug(LogMsgRenderEnd)
	return out, nil
}

// Step is the result of rendering a single node.
type Step struct {
	Node     Node
	Output   string
	Sentinel bool // The node was a sentinel tag such as else or elseif
}

// Invocation is one tag call: its name, parsed arguments, the tag node and
// its body. Bodies are consumed as a stream with Step.
type Invocation struct {
	Name    string
	Args    Args
	Tag     Node
	body    []Node
	hasBody bool
	pos     int
	depth   int
	rt      *Runtime
}

// Nodes returns the tag body. Simple tags have none.
func (inv *Invocation) Nodes() []Node {
	return inv.body
}

// HasBody reports whether a matching end tag was found.
func (inv *Invocation) HasBody() bool {
	return inv.hasBody
}

// Depth returns the nesting depth of the invocation.
func (inv *Invocation) Depth() int {
	return inv.depth
}

// Scope returns the render scope.
func (inv *Invocation) Scope() Scope {
	return inv.rt.scope
}

// Logger returns the render logger.
func (inv *Invocation) Logger() *zap.Logger {
	return inv.rt.logger
}

// Context returns the render context.
func (inv *Invocation) Context() context.Context {
	return inv.rt.ctx
}

// Reset rewinds the body stream so it can be rendered again.
func (inv *Invocation) Reset() {
	inv.pos = 0
}

// Step renders the next body node. It returns false when the body is
// exhausted. Tags consume their own bodies from the stream.
func (inv *Invocation) Step() (Step, bool, error) {
	if inv.pos >= len(inv.body) {
		return Step{}, false, nil
	}
	if err := inv.rt.ctx.Err(); err != nil {
		return Step{}, false, err
	}

	node := inv.body[inv.pos]
	inv.pos++

	switch node.Kind {
	case NodeText:
		return Step{Node: node, Output: node.Raw}, true, nil
	case NodeComment:
		return Step{Node: node}, true, nil
	case NodeVariable:
		out, err := inv.rt.eval.Render(node.Content, inv.rt.scope)
		if err != nil {
			return Step{}, false, locate(err, node)
		}
		return Step{Node: node, Output: out}, true, nil
	default:
		out, consumed, sentinel, err := inv.rt.dispatch(node, inv.body[inv.pos:], inv.depth)
		if err != nil {
			return Step{}, false, err
		}
		inv.pos += consumed
		return Step{Node: node, Output: out, Sentinel: sentinel}, true, nil
	}
}

// Evaluate is the default rendering: every body node in order, with
// sentinel output dropped.
func (inv *Invocation) Evaluate() (string, error) {
	var sb strings.Builder
	for {
		step, ok, err := inv.Step()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		if !step.Sentinel {
			sb.WriteString(step.Output)
		}
	}
	return sb.String(), nil
}

// Fork returns an invocation over nodes that shares this one's tag and depth.
func (inv *Invocation) Fork(nodes []Node) *Invocation {
	return &Invocation{
		Name:    inv.Name,
		Args:    inv.Args,
		Tag:     inv.Tag,
		body:    nodes,
		hasBody: true,
		depth:   inv.depth,
		rt:      inv.rt,
	}
}

// Render renders an arbitrary node sequence with default evaluation.
func (inv *Invocation) Render(nodes []Node) (string, error) {
	return inv.Fork(nodes).Evaluate()
}

// Resolve resolves an expression without escaping.
func (inv *Invocation) Resolve(expr string) (any, error) {
	v, err := inv.rt.eval.Resolve(expr, inv.rt.scope)
	if err != nil {
		return nil, locate(err, inv.Tag)
	}
	return v, nil
}

// EvaluateVariable resolves an expression the way {{ expr }} does.
func (inv *Invocation) EvaluateVariable(expr string) (any, error) {
	v, err := inv.rt.eval.Evaluate(expr, inv.rt.scope)
	if err != nil {
		return nil, locate(err, inv.Tag)
	}
	return v, nil
}

// ExpectsNodes fails unless the tag was written with a body.
func (inv *Invocation) ExpectsNodes() error {
	if !inv.hasBody {
		return inv.Error(KindMalformedTag, ErrMsgExpectsNodes)
	}
	return nil
}

// ExpectsTag fails if the tag was written with a body.
func (inv *Invocation) ExpectsTag() error {
	if inv.hasBody {
		return inv.Error(KindMalformedTag, ErrMsgExpectsTag)
	}
	return nil
}

// Error builds an error located at the tag node.
func (inv *Invocation) Error(kind ErrorKind, message string) *TemplateError {
	return NewNodeError(kind, message, inv.Tag)
}

// dispatch runs the tag at node. remaining is the rest of the enclosing
// stream; consumed reports how many of those nodes became the tag body
// including its end tag.
func (rt *Runtime) dispatch(node Node, remaining []Node, depth int) (string, int, bool, error) {
	name := node.TagName()
	factory, ok := rt.tags.Get(name)
	if !ok {
		return "", 0, false, rt.unknownTag(node, name)
	}
	if depth+1 > rt.maxDepth {
		return "", 0, false, NewNodeError(KindInternal, ErrMsgMaxDepthExceeded, node)
	}

	body, consumed, hasBody := scanBody(name, remaining)
	inv := &Invocation{
		Name:    name,
		Args:    ParseArgs(node.TagArgs()),
		Tag:     node,
		body:    body,
		hasBody: hasBody,
		depth:   depth + 1,
		rt:      rt,
	}

	rt.logger.Debug(LogMsgTagDispatched,
		zap.String(LogFieldTagName, name),
		zap.Int(LogFieldDepth, inv.depth),
		zap.Int(LogFieldNodes, len(body)),
	)

	handler := factory()
	out, err := handler.Evaluate(inv)
	if err != nil {
		if rt.ctx.Err() != nil {
			return "", 0, false, err
		}
		return "", 0, false, locate(err, node)
	}

	sentinel := false
	if s, ok := handler.(Sentinel); ok {
		sentinel = s.IsSentinel()
	}
	rt.logger.Debug(LogMsgTagComplete, zap.String(LogFieldTagName, name))
	return out, consumed, sentinel, nil
}

// scanBody finds the end tag balancing same-named openings. Without one the
// tag is simple and consumes nothing.
func scanBody(name string, remaining []Node) ([]Node, int, bool) {
	endName := EndTagPrefix + name
	nesting := 0
	for i, n := range remaining {
		if !n.IsTag() {
			continue
		}
		switch n.TagName() {
		case name:
			nesting++
		case endName:
			if nesting == 0 {
				return remaining[:i], i + 1, true
			}
			nesting--
		}
	}
	return nil, 0, false
}

func (rt *Runtime) unknownTag(node Node, name string) error {
	if opening, isEnd := strings.CutPrefix(name, EndTagPrefix); isEnd && rt.tags.Has(opening) {
		return NewNodeError(KindMalformedTag, ErrMsgUnmatchedEndTag, node)
	}
	return NewNodeError(KindMalformedTag, ErrMsgUnknownTag+" "+strconv.Quote(name), node).
		WithSuggestions(FindSimilarStrings(name, rt.tags.List(), DefaultMaxSuggestions))
}

// locate fills in the node's template and position on errors that lack
// them. Foreign errors are wrapped.
func locate(err error, node Node) error {
	te, ok := AsTemplateError(err)
	if !ok {
		return &TemplateError{
			Kind:     KindInternal,
			Message:  ErrMsgTagFailed,
			Template: node.Template,
			Tag:      node.TagName(),
			Position: node.Pos,
			Cause:    err,
		}
	}
	if te.Position.Line == 0 {
		te.Position = node.Pos
		if te.Tag == "" {
			te.Tag = node.TagName()
		}
	}
	te.WithTemplate(node.Template)
	return err
}
