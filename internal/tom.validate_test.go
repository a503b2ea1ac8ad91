package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validateString(t *testing.T, source string) []Issue {
	t.Helper()
	env := newTestEnv(nil)
	nodes, err := Tokenize(source, "page.html", env.logger)
	require.NoError(t, err)
	return Validate(nodes, env.tags, env.filters)
}

func TestValidate_Clean(t *testing.T) {
	sources := []string{
		"plain text",
		"{{ name|capitalize|truncate:5 }}",
		"{% if x equals 1 %}A{% elseif x isgreater 2 orequals %}B{% else %}C{% endif %}",
		"{% foreach items:item %}{% if item.ok equals 1 %}{% endif %}{% endforeach %}",
		"{% count items \" item\" \" items\" %}",
		"{% transform spacesunderscores %}a b{% endtransform %}",
		"{% verbatim %}{% nope %}{{ x|unknown }}{% endverbatim %}",
		"{% block main %}x{% endblock %}",
	}

	for _, source := range sources {
		issues := validateString(t, source)
		for _, issue := range issues {
			assert.True(t, issue.Warning, "%q: %v", source, issue.Err)
		}
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		kind    ErrorKind
		message string
	}{
		{"unknown filter", "{{ name|captalize }}", KindUnknownFilter, ErrMsgUnknownFilter},
		{"unknown tag", "{% forech items:i %}{% endforech %}", KindMalformedTag, ErrMsgUnknownTag},
		{"unmatched end tag", "{% endforeach %}", KindMalformedTag, ErrMsgUnmatchedEndTag},
		{"body tag without body", "{% uppercase %}abc", KindMalformedTag, ErrMsgExpectsNodes},
		{"unterminated block", "{% block main %}abc", KindMalformedTag, ErrMsgExpectsNodes},
		{"count with body", "{% count items %}x{% endcount %}", KindMalformedTag, ErrMsgExpectsTag},
		{"invalid comparison", "{% if x frobs 1 %}{% endif %}", KindInvalidComparison, ErrMsgInvalidComparison},
		{"missing comparison", "{% if x %}{% endif %}", KindInvalidComparison, ErrMsgMissingComparison},
		{"missing operand", "{% if x equals %}{% endif %}", KindMalformedTag, ErrMsgMissingOperand},
		{"foreach syntax", "{% foreach items %}{% endforeach %}", KindMalformedTag, ErrMsgForeachSyntax},
		{"unknown transform", "{% transform dashes %}a{% endtransform %}", KindMalformedTag, ErrMsgUnknownTransform},
		{"count without expression", "{% count %}", KindMalformedTag, ErrMsgCountMissingExpr},
		{"extends after content", `x{% extends "base.html" %}`, KindMalformedTag, ErrMsgExtendsNotFirst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := validateString(t, tt.source)
			require.NotEmpty(t, issues)
			issue := issues[0]
			assert.False(t, issue.Warning)
			assert.Equal(t, tt.kind, issue.Err.Kind)
			assert.Contains(t, issue.Err.Message, tt.message)
			assert.Equal(t, "page.html", issue.Err.Template)
		})
	}
}

func TestValidate_ReportsEveryIssue(t *testing.T) {
	issues := validateString(t, "{{ a|nope }}\n{% nope %}\n{{ b|alsonope }}")
	require.Len(t, issues, 3)
	assert.Equal(t, 1, issues[0].Err.Position.Line)
	assert.Equal(t, 2, issues[1].Err.Position.Line)
	assert.Equal(t, 3, issues[2].Err.Position.Line)
}

func TestValidate_Suggestions(t *testing.T) {
	issues := validateString(t, "{{ name|captalize }}{% forech items:i %}")
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0].Err.Suggestions, "capitalize")
	assert.Contains(t, issues[1].Err.Suggestions, "foreach")
}

func TestValidate_DebugTagWarns(t *testing.T) {
	issues := validateString(t, "{% debug x %}")
	require.Len(t, issues, 1)
	assert.True(t, issues[0].Warning)
	assert.Equal(t, ErrMsgDebugTagPresent, issues[0].Err.Message)
}
