package internal

import (
	"strings"

	"go.uber.org/zap"
)

// RegisterBuiltinTags registers every built-in tag.
func RegisterBuiltinTags(r *TagRegistry) {
	r.MustRegister(TagNameIf, func() TagHandler { return &ifTag{} })
	r.MustRegister(TagNameElse, func() TagHandler { return sentinelTag{} })
	r.MustRegister(TagNameElseIf, func() TagHandler { return sentinelTag{} })
	r.MustRegister(TagNameForeach, func() TagHandler { return &foreachTag{} })
	r.MustRegister(TagNameComment, func() TagHandler { return TagFunc(commentTag) })
	r.MustRegister(TagNameLowercase, func() TagHandler { return TagFunc(lowercaseTag) })
	r.MustRegister(TagNameUppercase, func() TagHandler { return TagFunc(uppercaseTag) })
	r.MustRegister(TagNameTransform, func() TagHandler { return TagFunc(transformTag) })
	r.MustRegister(TagNameCount, func() TagHandler { return TagFunc(countTag) })
	r.MustRegister(TagNameDebug, func() TagHandler { return TagFunc(debugTag) })
	r.MustRegister(TagNameDummyTag, func() TagHandler { return TagFunc(dummyTag) })
	r.MustRegister(TagNameDummyBlock, func() TagHandler { return TagFunc(dummyBlockTag) })
	r.MustRegister(TagNameBlock, func() TagHandler { return TagFunc(blockTag) })
	r.MustRegister(TagNameExtends, func() TagHandler { return TagFunc(extendsTag) })
	r.MustRegister(TagNameVerbatim, func() TagHandler { return TagFunc(verbatimTag) })
}

// sentinelTag marks an else or elseif position for the enclosing if.
type sentinelTag struct{}

func (sentinelTag) Evaluate(*Invocation) (string, error) { return "", nil }

func (sentinelTag) IsSentinel() bool { return true }

func commentTag(inv *Invocation) (string, error) {
	if err := inv.ExpectsNodes(); err != nil {
		return "", err
	}
	return "", nil
}

func lowercaseTag(inv *Invocation) (string, error) {
	if err := inv.ExpectsNodes(); err != nil {
		return "", err
	}
	out, err := inv.Evaluate()
	if err != nil {
		return "", err
	}
	return strings.ToLower(out), nil
}

func uppercaseTag(inv *Invocation) (string, error) {
	if err := inv.ExpectsNodes(); err != nil {
		return "", err
	}
	out, err := inv.Evaluate()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(out), nil
}

func transformTag(inv *Invocation) (string, error) {
	if err := inv.ExpectsNodes(); err != nil {
		return "", err
	}
	first, _ := inv.Args.At(0)
	if first.Value != TransformSpacesUnderscores || first.IsNamed() {
		return "", inv.Error(KindMalformedTag, ErrMsgUnknownTransform)
	}
	out, err := inv.Evaluate()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, " ", "_"), nil
}

// debugTag logs every argument's resolved value and renders nothing.
func debugTag(inv *Invocation) (string, error) {
	fields := make([]zap.Field, 0, inv.Args.Len()+2)
	fields = append(fields,
		zap.String(LogFieldTemplate, inv.Tag.Template),
		zap.Int(LogFieldLine, inv.Tag.Pos.Line),
	)
	for _, arg := range inv.Args.Positional {
		expr := argExpr(arg)
		v, err := inv.Resolve(expr)
		if err != nil {
			return "", err
		}
		fields = append(fields, zap.Any(expr, v))
	}
	inv.Logger().Info(LogMsgDebugTag, fields...)
	return "", nil
}

func dummyTag(*Invocation) (string, error) {
	return OutputDummyTag, nil
}

func dummyBlockTag(inv *Invocation) (string, error) {
	if err := inv.ExpectsNodes(); err != nil {
		return "", err
	}
	out, err := inv.Evaluate()
	if err != nil {
		return "", err
	}
	return OutputDummyBlock + out, nil
}

func blockTag(inv *Invocation) (string, error) {
	if err := inv.ExpectsNodes(); err != nil {
		return "", err
	}
	return inv.Evaluate()
}

// extendsTag only runs when extends was not resolved up front.
func extendsTag(inv *Invocation) (string, error) {
	return "", inv.Error(KindMalformedTag, ErrMsgExtendsNotFirst)
}

// verbatimTag renders its body's source text untouched.
func verbatimTag(inv *Invocation) (string, error) {
	if err := inv.ExpectsNodes(); err != nil {
		return "", err
	}
	return JoinRaw(inv.Nodes()), nil
}

// argExpr rebuilds the source text of a positional argument.
func argExpr(a Arg) string {
	if a.IsNamed() {
		return a.Name + ArgSeparator + a.Value
	}
	return a.Value
}
