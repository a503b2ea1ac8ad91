package internal

import (
	"strconv"
	"strings"
)

// bodyTags are the built-in tags that must be written with an end tag.
var bodyTags = map[string]bool{
	TagNameIf:         true,
	TagNameForeach:    true,
	TagNameComment:    true,
	TagNameLowercase:  true,
	TagNameUppercase:  true,
	TagNameTransform:  true,
	TagNameVerbatim:   true,
	TagNameBlock:      true,
	TagNameDummyBlock: true,
}

// Issue is a single finding of Validate.
type Issue struct {
	Err     *TemplateError
	Warning bool
}

// Validate checks resolved nodes without rendering them. It reports unknown
// tags and filters, unmatched end tags, body tags written without a body and
// malformed arguments of the built-in tags. Checks needing context values
// are left to rendering.
func Validate(nodes []Node, tags *TagRegistry, filters *FilterRegistry) []Issue {
	v := &validator{tags: tags, filters: filters, open: make(map[string]int)}
	v.walk(nodes)
	return v.issues
}

type validator struct {
	tags    *TagRegistry
	filters *FilterRegistry
	open    map[string]int
	issues  []Issue
}

func (v *validator) fail(err *TemplateError) {
	v.issues = append(v.issues, Issue{Err: err})
}

func (v *validator) warn(err *TemplateError) {
	v.issues = append(v.issues, Issue{Err: err, Warning: true})
}

func (v *validator) walk(nodes []Node) {
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		switch n.Kind {
		case NodeVariable:
			v.checkFilters(n)
		case NodeTag:
			i += v.checkTag(n, nodes[i+1:])
		}
	}
}

func (v *validator) checkFilters(n Node) {
	_, calls := splitPipeline(n.Content)
	for _, call := range calls {
		if v.filters.Has(call.name) {
			continue
		}
		v.fail(NewNodeError(KindUnknownFilter, ErrMsgUnknownFilter+" "+strconv.Quote(call.name), n).
			WithSuggestions(FindSimilarStrings(call.name, v.filters.List(), DefaultMaxSuggestions)))
	}
}

// checkTag validates the tag at n and returns how many of the remaining
// nodes it skipped.
func (v *validator) checkTag(n Node, remaining []Node) int {
	name := n.TagName()
	if !v.tags.Has(name) {
		opening, isEnd := strings.CutPrefix(name, EndTagPrefix)
		switch {
		case isEnd && v.tags.Has(opening) && v.open[opening] > 0:
			v.open[opening]--
		case isEnd && v.tags.Has(opening):
			v.fail(NewNodeError(KindMalformedTag, ErrMsgUnmatchedEndTag, n))
		default:
			v.fail(NewNodeError(KindMalformedTag, ErrMsgUnknownTag+" "+strconv.Quote(name), n).
				WithSuggestions(FindSimilarStrings(name, v.tags.List(), DefaultMaxSuggestions)))
		}
		return 0
	}

	_, consumed, hasBody := scanBody(name, remaining)
	if hasBody && name == TagNameVerbatim {
		return consumed
	}
	if hasBody {
		v.open[name]++
	}

	args := ParseArgs(n.TagArgs())
	switch {
	case bodyTags[name] && !hasBody:
		v.fail(NewNodeError(KindMalformedTag, ErrMsgExpectsNodes, n))
	case name == TagNameCount && hasBody:
		v.fail(NewNodeError(KindMalformedTag, ErrMsgExpectsTag, n))
	}

	switch name {
	case TagNameIf, TagNameElseIf:
		if _, err := parseCondition(args, n); err != nil {
			if te, ok := AsTemplateError(err); ok {
				v.fail(te)
			}
		}
	case TagNameForeach:
		loopArg, ok := args.At(0)
		if !ok || args.Len() != 1 || !loopArg.IsNamed() || loopArg.Value == "" {
			v.fail(NewNodeError(KindMalformedTag, ErrMsgForeachSyntax, n))
		}
	case TagNameTransform:
		first, _ := args.At(0)
		if first.Value != TransformSpacesUnderscores || first.IsNamed() {
			v.fail(NewNodeError(KindMalformedTag, ErrMsgUnknownTransform, n))
		}
	case TagNameCount:
		if args.Len() == 0 {
			v.fail(NewNodeError(KindMalformedTag, ErrMsgCountMissingExpr, n))
		}
	case TagNameExtends:
		v.fail(NewNodeError(KindMalformedTag, ErrMsgExtendsNotFirst, n))
	case TagNameDebug:
		v.warn(NewNodeError(KindInternal, ErrMsgDebugTagPresent, n))
	}
	return 0
}
