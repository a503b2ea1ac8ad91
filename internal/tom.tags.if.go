package internal

import (
	"strconv"
	"strings"
)

// condition is a parsed if/elseif comparison.
type condition struct {
	method   string
	left     string
	right    string
	hasRight bool
	orEquals bool
}

var comparisonMethods = map[string]bool{
	CmpIsTrue:    false,
	CmpIsFalse:   false,
	CmpEquals:    true,
	CmpNotEquals: true,
	CmpIsGreater: true,
	CmpIsLess:    true,
	CmpExists:    false,
	CmpEmpty:     false,
	CmpNotEmpty:  false,
}

// ifTag renders the first branch whose condition holds. Two spellings are
// accepted:
//
//	{% if equals:x to:1 %}   {% if isgreater:x than:5 orequals %}
//	{% if x equals 1 %}      {% if x isgreater 5 orequals %}
type ifTag struct{}

func (t *ifTag) Evaluate(inv *Invocation) (string, error) {
	if err := inv.ExpectsNodes(); err != nil {
		return "", err
	}
	return t.branch(inv, inv.Tag, inv.Args, inv.Nodes())
}

// branch evaluates the condition written at node and renders nodes up to
// the next sentinel, or continues with the else/elseif that follows.
func (t *ifTag) branch(inv *Invocation, node Node, args Args, nodes []Node) (string, error) {
	cond, err := parseCondition(args, node)
	if err != nil {
		return "", err
	}
	ok, err := t.test(inv, cond, node)
	if err != nil {
		return "", err
	}

	if ok {
		stream := inv.Fork(nodes)
		var sb strings.Builder
		for {
			step, more, err := stream.Step()
			if err != nil {
				return "", err
			}
			if !more || step.Sentinel {
				break
			}
			sb.WriteString(step.Output)
		}
		return sb.String(), nil
	}

	idx := findBranch(nodes)
	if idx < 0 {
		return "", nil
	}
	next := nodes[idx]
	rest := nodes[idx+1:]
	if next.TagName() == TagNameElseIf {
		return t.branch(inv, next, ParseArgs(next.TagArgs()), rest)
	}
	return inv.Render(rest)
}

// findBranch returns the index of the first else/elseif outside nested ifs.
func findBranch(nodes []Node) int {
	depth := 0
	for i, n := range nodes {
		if !n.IsTag() {
			continue
		}
		switch n.TagName() {
		case TagNameIf:
			depth++
		case TagNameEndIf:
			depth--
		case TagNameElse, TagNameElseIf:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (t *ifTag) test(inv *Invocation, cond condition, node Node) (bool, error) {
	left, err := inv.Resolve(cond.left)
	if err != nil {
		return false, err
	}
	var right any
	if cond.hasRight {
		if right, err = inv.Resolve(cond.right); err != nil {
			return false, err
		}
	}

	switch cond.method {
	case CmpIsTrue:
		return Truthy(left), nil
	case CmpIsFalse:
		return !Truthy(left), nil
	case CmpEquals:
		return LooseEqual(left, right), nil
	case CmpNotEquals:
		return !LooseEqual(left, right), nil
	case CmpIsGreater:
		c := Compare(left, right)
		return c > 0 || (cond.orEquals && c == 0), nil
	case CmpIsLess:
		c := Compare(left, right)
		return c < 0 || (cond.orEquals && c == 0), nil
	case CmpExists:
		return Stringify(left) != "", nil
	case CmpEmpty:
		return IsEmpty(left), nil
	case CmpNotEmpty:
		return !IsEmpty(left), nil
	}
	return false, NewNodeError(KindInvalidComparison, ErrMsgInvalidComparison+" "+strconv.Quote(cond.method), node)
}

// parseCondition reads either the named or the infix spelling.
func parseCondition(args Args, node Node) (condition, error) {
	first, ok := args.At(0)
	if !ok {
		return condition{}, NewNodeError(KindMalformedTag, ErrMsgMissingComparison, node)
	}

	var cond condition
	cond.orEquals = args.HasFlag(CmpOrEquals)

	if first.IsNamed() {
		cond.method = first.Name
		cond.left = first.Value
		if v, ok := args.Get(CmpArgTo); ok {
			cond.right, cond.hasRight = v, true
		} else if v, ok := args.Get(CmpArgThan); ok {
			cond.right, cond.hasRight = v, true
		}
	} else {
		cond.left = first.Value
		keyword, ok := args.At(1)
		if !ok || !keyword.Flag {
			return condition{}, NewNodeError(KindInvalidComparison, ErrMsgMissingComparison, node)
		}
		cond.method = keyword.Value
		if operand, ok := args.At(2); ok && !(operand.Flag && operand.Value == CmpOrEquals) {
			cond.right, cond.hasRight = argExpr(operand), true
		}
	}

	needsRight, known := comparisonMethods[cond.method]
	if !known {
		return condition{}, NewNodeError(KindInvalidComparison, ErrMsgInvalidComparison+" "+strconv.Quote(cond.method), node)
	}
	if needsRight && !cond.hasRight {
		return condition{}, NewNodeError(KindMalformedTag, ErrMsgMissingOperand, node)
	}
	return cond, nil
}
