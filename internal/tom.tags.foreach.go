package internal

import (
	"strings"

	"go.uber.org/zap"
)

// foreachTag renders its body once per item of a collection, written as
// {% foreach collection:alias %}. The alias is bound only while the loop runs.
type foreachTag struct {
	iterations int
}

func (t *foreachTag) Evaluate(inv *Invocation) (string, error) {
	if err := inv.ExpectsNodes(); err != nil {
		return "", err
	}
	loopArg, ok := inv.Args.At(0)
	if !ok || inv.Args.Len() != 1 || !loopArg.IsNamed() || loopArg.Value == "" {
		return "", inv.Error(KindMalformedTag, ErrMsgForeachSyntax)
	}
	collection, alias := loopArg.Name, loopArg.Value

	scope := inv.Scope()
	if scope.Has(alias) {
		return "", inv.Error(KindMalformedTag, ErrMsgForeachAliasExists)
	}

	value, err := inv.Resolve(collection)
	if err != nil {
		return "", err
	}
	items, ok := Iterate(value)
	if !ok {
		inv.Logger().Debug(LogMsgForeachNotIterable,
			zap.String(LogFieldCollection, collection),
			zap.String(LogFieldAlias, alias),
		)
		return "", nil
	}

	inv.Logger().Debug(LogMsgForeachStart,
		zap.String(LogFieldCollection, collection),
		zap.String(LogFieldAlias, alias),
	)
	defer scope.Unbind(alias)

	var sb strings.Builder
	for item := range items {
		scope.Bind(alias, item)
		out, err := inv.Render(inv.Nodes())
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
		t.iterations++
	}

	inv.Logger().Debug(LogMsgForeachEnd, zap.Int(LogFieldIterations, t.iterations))
	return sb.String(), nil
}
