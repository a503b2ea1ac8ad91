package internal

import (
	"strconv"

	"go.uber.org/zap"
)

// countTag renders {% count expr [singular] [plural] %} as the size of expr
// followed by the matching suffix.
func countTag(inv *Invocation) (string, error) {
	if err := inv.ExpectsTag(); err != nil {
		return "", err
	}
	first, ok := inv.Args.At(0)
	if !ok {
		return "", inv.Error(KindMalformedTag, ErrMsgCountMissingExpr)
	}
	var singular, plural string
	if a, ok := inv.Args.At(1); ok {
		singular = Unquote(argExpr(a))
	}
	if a, ok := inv.Args.At(2); ok {
		plural = Unquote(argExpr(a))
	}

	value, err := inv.Resolve(argExpr(first))
	if err != nil {
		return "", err
	}

	n, countable, err := Count(value)
	if !countable {
		if Truthy(value) {
			return "1" + singular, nil
		}
		return "0" + plural, nil
	}
	if err != nil {
		inv.Logger().Debug(LogMsgCountFailed, zap.String(LogFieldExpression, argExpr(first)), zap.Error(err))
		return OutputCountFail + plural, nil
	}
	if n == 1 {
		return strconv.Itoa(n) + singular, nil
	}
	return strconv.Itoa(n) + plural, nil
}
