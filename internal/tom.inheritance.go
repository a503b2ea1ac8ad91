package internal

import (
	"context"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source is raw template text and the canonical name it was loaded under.
type Source struct {
	Name string
	Body string
}

// Loader fetches template sources by canonical, slash-rooted name.
type Loader interface {
	Load(ctx context.Context, name string) (*Source, error)
}

// InheritanceResolver splices a child template's blocks into the chain of
// templates it extends.
type InheritanceResolver struct {
	loader   Loader
	maxDepth int
	logger   *zap.Logger
}

// NewInheritanceResolver creates a resolver. maxDepth <= 0 uses
// DefaultMaxInheritanceDepth.
func NewInheritanceResolver(loader Loader, maxDepth int, logger *zap.Logger) *InheritanceResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxInheritanceDepth
	}
	return &InheritanceResolver{
		loader:   loader,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// Resolve returns nodes with any extends chain applied. name is the
// canonical name of the template nodes came from; it is empty for inline
// sources. A template that does not extend another is returned unchanged.
func (r *InheritanceResolver) Resolve(ctx context.Context, name string, nodes []Node) ([]Node, error) {
	return r.resolve(ctx, name, nodes, nil, false)
}

// resolve applies one extends level. Intermediate levels keep the block
// markers around spliced content so descendants can still override them.
func (r *InheritanceResolver) resolve(ctx context.Context, name string, nodes []Node, chain []string, keepMarkers bool) ([]Node, error) {
	idx, ok := extendsIndex(nodes)
	if !ok {
		return nodes, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	node := nodes[idx]

	parentName, err := r.parentName(name, node)
	if err != nil {
		return nil, err
	}

	if name != "" {
		chain = append(slices.Clone(chain), name)
	}
	if slices.Contains(chain, parentName) {
		return nil, NewNodeError(KindCircularExtends, ErrMsgCircularExtends+": "+strings.Join(append(chain, parentName), " -> "), node)
	}
	if len(chain) >= r.maxDepth {
		return nil, NewNodeError(KindCircularExtends, ErrMsgInheritanceDepth, node)
	}

	parent, err := r.load(ctx, parentName, node)
	if err != nil {
		return nil, err
	}
	r.logger.Debug(LogMsgParentLoaded, zap.String(LogFieldTemplate, name), zap.String(LogFieldParent, parent.Name))

	parentNodes, err := Tokenize(parent.Body, parent.Name, r.logger)
	if err != nil {
		return nil, err
	}
	parentNodes, err = r.resolve(ctx, parent.Name, parentNodes, chain, true)
	if err != nil {
		return nil, err
	}

	restore := make(map[string]Node)
	child, err := escapeVerbatim(nodes[idx+1:], restore)
	if err != nil {
		return nil, err
	}
	parentNodes, err = escapeVerbatim(parentNodes, restore)
	if err != nil {
		return nil, err
	}

	spliced, err := r.splice(parentNodes, child, keepMarkers)
	if err != nil {
		return nil, err
	}
	for i, n := range spliced {
		if original, ok := restore[n.Raw]; ok && n.IsText() {
			spliced[i] = original
		}
	}

	r.logger.Debug(LogMsgExtendsResolved,
		zap.String(LogFieldTemplate, name),
		zap.String(LogFieldParent, parent.Name),
		zap.Int(LogFieldNodes, len(spliced)),
	)
	return spliced, nil
}

// extendsIndex finds an extends tag preceded only by whitespace text.
func extendsIndex(nodes []Node) (int, bool) {
	for i, n := range nodes {
		switch {
		case n.IsText() && strings.TrimSpace(n.Raw) == "":
			continue
		case n.IsTagNamed(TagNameExtends):
			return i, true
		default:
			return -1, false
		}
	}
	return -1, false
}

// parentName resolves the extends path. Absolute paths are taken as is;
// relative ones are joined to the directory of the current template.
func (r *InheritanceResolver) parentName(current string, node Node) (string, error) {
	first, ok := ParseArgs(node.TagArgs()).At(0)
	target := Unquote(first.Value)
	if !ok || first.IsNamed() || target == "" {
		return "", NewNodeError(KindMalformedTag, ErrMsgExtendsMissingPath, node)
	}
	if strings.HasPrefix(target, "/") {
		return path.Clean(target), nil
	}
	dir := "/"
	if current != "" {
		dir = path.Dir(path.Join("/", current))
	}
	return path.Join(dir, target), nil
}

func (r *InheritanceResolver) load(ctx context.Context, name string, node Node) (*Source, error) {
	if r.loader == nil {
		return nil, NewNodeError(KindTemplateNotFound, ErrMsgNoLoader+": "+strconv.Quote(name), node)
	}
	src, err := r.loader.Load(ctx, name)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if te, ok := AsTemplateError(err); ok {
			if te.Position.Line == 0 {
				te.Position = node.Pos
			}
			te.WithTemplate(node.Template)
			return nil, te
		}
		te := NewNodeError(KindTemplateNotFound, ErrMsgTemplateNotFound+": "+strconv.Quote(name), node)
		te.Cause = err
		return nil, te
	}
	if src.Name == "" {
		src.Name = name
	}
	return src, nil
}

// splice walks the parent, replacing each block with the child's override
// or, failing that, with its own default content spliced recursively.
func (r *InheritanceResolver) splice(parent, child []Node, keepMarkers bool) ([]Node, error) {
	out := make([]Node, 0, len(parent))
	for i := 0; i < len(parent); i++ {
		n := parent[i]
		if n.IsTagNamed(TagNameEndBlock) {
			return nil, NewNodeError(KindMalformedTag, ErrMsgUnevenBlocks, n)
		}
		if !n.IsTagNamed(TagNameBlock) {
			out = append(out, n)
			continue
		}

		end, ok := matchEndBlock(parent, i)
		if !ok {
			return nil, NewNodeError(KindMalformedTag, ErrMsgUnevenBlocks, n)
		}
		blockName := blockNameOf(n)

		inner, found, err := findChildBlock(child, blockName)
		if err != nil {
			return nil, err
		}
		if found {
			r.logger.Debug(LogMsgBlockOverridden, zap.String(LogFieldBlock, blockName))
		} else {
			r.logger.Debug(LogMsgBlockDefault, zap.String(LogFieldBlock, blockName))
			if inner, err = r.splice(parent[i+1:end], child, keepMarkers); err != nil {
				return nil, err
			}
		}

		if keepMarkers {
			out = append(out, n)
			out = append(out, inner...)
			out = append(out, parent[end])
		} else {
			out = append(out, inner...)
		}
		i = end
	}
	return out, nil
}

// matchEndBlock returns the index of the endblock balancing the block at start.
func matchEndBlock(nodes []Node, start int) (int, bool) {
	depth := 0
	for i := start + 1; i < len(nodes); i++ {
		switch {
		case nodes[i].IsTagNamed(TagNameBlock):
			depth++
		case nodes[i].IsTagNamed(TagNameEndBlock):
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return -1, false
}

// findChildBlock locates block name anywhere in the child and returns its
// inner nodes.
func findChildBlock(child []Node, name string) ([]Node, bool, error) {
	for i, n := range child {
		if !n.IsTagNamed(TagNameBlock) || blockNameOf(n) != name {
			continue
		}
		end, ok := matchEndBlock(child, i)
		if !ok {
			return nil, false, NewNodeError(KindMalformedTag, ErrMsgUnevenBlocks, n)
		}
		return child[i+1 : end], true, nil
	}
	return nil, false, nil
}

func blockNameOf(n Node) string {
	first, _ := ParseArgs(n.TagArgs()).At(0)
	return Unquote(first.Value)
}

// escapeVerbatim hides block and endblock tags inside verbatim regions
// behind placeholder text nodes recorded in restore.
func escapeVerbatim(nodes []Node, restore map[string]Node) ([]Node, error) {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	for i := 0; i < len(out); i++ {
		if !out[i].IsTagNamed(TagNameVerbatim) {
			continue
		}
		start := i
		depth := 0
		closed := false
		for i++; i < len(out); i++ {
			n := out[i]
			switch {
			case n.IsTagNamed(TagNameVerbatim):
				depth++
			case n.IsTagNamed(TagNameEndVerbatim):
				if depth == 0 {
					closed = true
				} else {
					depth--
				}
			case n.IsTagNamed(TagNameBlock), n.IsTagNamed(TagNameEndBlock):
				placeholder := PlaceholderPrefix + strings.ReplaceAll(uuid.NewString(), "-", "") + PlaceholderSuffix
				restore[placeholder] = n
				out[i] = NewTextNode(placeholder, n.Pos)
				out[i].Template = n.Template
			}
			if closed {
				break
			}
		}
		if !closed {
			return nil, NewNodeError(KindMalformedTag, ErrMsgUnterminatedVerbatim, out[start])
		}
	}
	return out, nil
}
