package tom

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationSeverity_String(t *testing.T) {
	assert.Equal(t, SeverityNameError, SeverityError.String())
	assert.Equal(t, SeverityNameWarning, SeverityWarning.String())
}

func TestEngine_Validate(t *testing.T) {
	engine := MustNew()
	ctx := context.Background()

	t.Run("valid template", func(t *testing.T) {
		result, err := engine.Validate(ctx, "{% foreach items:item %}{{ item|uppercase }}{% endforeach %}")
		require.NoError(t, err)
		assert.True(t, result.IsValid())
		assert.Empty(t, result.Issues())
	})

	t.Run("errors carry location and suggestions", func(t *testing.T) {
		result, err := engine.Validate(ctx, "ok\n{{ name|captalize }}\n{% if x frobs 1 %}{% endif %}")
		require.NoError(t, err)
		assert.True(t, result.HasErrors())

		errs := result.Errors()
		require.Len(t, errs, 2)
		assert.Equal(t, KindUnknownFilter, errs[0].Kind)
		assert.Equal(t, 2, errs[0].Position.Line)
		assert.Contains(t, errs[0].Suggestions, "capitalize")
		assert.Equal(t, KindInvalidComparison, errs[1].Kind)
		assert.Equal(t, "if", errs[1].TagName)
		assert.Equal(t, SeverityError, errs[1].Severity)
	})

	t.Run("debug tag is a warning", func(t *testing.T) {
		result, err := engine.Validate(ctx, "{% debug x %}")
		require.NoError(t, err)
		assert.True(t, result.IsValid())
		assert.True(t, result.HasWarnings())
		require.Len(t, result.Warnings(), 1)
		assert.Equal(t, SeverityWarning, result.Warnings()[0].Severity)
	})

	t.Run("tokenizer failure is an issue", func(t *testing.T) {
		result, err := engine.Validate(ctx, "{{ name")
		require.NoError(t, err)
		require.Len(t, result.Errors(), 1)
		assert.Equal(t, KindParse, result.Errors()[0].Kind)
	})

	t.Run("named template without loader", func(t *testing.T) {
		_, err := engine.Validate(ctx, "page.html")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTemplateNotFound))
	})
}

func TestEngine_ValidateNamed(t *testing.T) {
	loader := NewMemoryLoader(map[string]string{
		"base.html":   "{% block main %}{% endblock %}",
		"page.html":   `{% extends "base.html" %}{% block main %}{{ x|nope }}{% endblock %}`,
		"cycle.html":  `{% extends "cycle.html" %}`,
		"simple.html": "{{ x }}",
	})
	engine := MustNew(WithLoader(loader))
	ctx := context.Background()

	result, err := engine.Validate(ctx, "simple.html")
	require.NoError(t, err)
	assert.True(t, result.IsValid())

	result, err = engine.Validate(ctx, "page.html")
	require.NoError(t, err)
	require.Len(t, result.Errors(), 1)
	assert.Equal(t, KindUnknownFilter, result.Errors()[0].Kind)
	assert.Equal(t, "/page.html", result.Errors()[0].Template)

	result, err = engine.Validate(ctx, "cycle.html")
	require.NoError(t, err)
	require.Len(t, result.Errors(), 1)
	assert.Equal(t, KindCircularExtends, result.Errors()[0].Kind)

	_, err = engine.Validate(ctx, "missing.html")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
