package internal

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEvaluator(autoEscape bool) *Evaluator {
	filters := NewFilterRegistry(zap.NewNop())
	RegisterBuiltinFilters(filters)
	return NewEvaluator(filters, autoEscape, zap.NewNop())
}

func newTestScope() *MapScope {
	scope := NewMapScope(map[string]any{
		"name":  "bob",
		"html":  `<b>"Tom" & 'Jerry'</b>`,
		"count": 3,
		"user":  &testUser{Name: "Alice", Age: 41, Tags: []string{"admin", "dev"}},
		"items": []any{"a", map[string]any{"k": "v"}},
		"label": testLabel("<x>"),
		"a.b":   "dotted key",
	})
	scope.SetReserved(ReservedGet, map[string]any{"page": "2"})
	scope.SetReserved(ReservedEnv, map[string]string{"MODE": "test"})
	scope.SetReserved(SiteRootToken, "/site/")
	return scope
}

func TestEvaluator_ResolvePath(t *testing.T) {
	eval := newTestEvaluator(true)
	scope := newTestScope()

	tests := []struct {
		path     string
		expected any
	}{
		{"42", 42},
		{"-3", -3},
		{"2.9", 2},
		{"99999999999999999999999", nil},
		{"-99999999999999999999999", nil},
		{"1e30", nil},
		{"9223372036854775807", math.MaxInt64},
		{`"quoted text"`, "quoted text"},
		{"'single'", "single"},
		{"name", "bob"},
		{"count", 3},
		{"a.b", "dotted key"},
		{"user.Name", "Alice"},
		{"user.age", 41},
		{"user.tags.1", "dev"},
		{"user.greeting", "hi Alice"},
		{"user.initial", "A"},
		{"user.lookup", nil},
		{"user.missing", nil},
		{"user.missing.deeper", nil},
		{"items.0", "a"},
		{"items.1.k", "v"},
		{"items.9", nil},
		{"GET.page", "2"},
		{"ENV.MODE", "test"},
		{"/", "/site/"},
		{"SESSION.id", nil},
		{"unknown", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, eval.ResolvePath(tt.path, scope))
		})
	}
}

func TestEvaluator_ReservedNamesYieldToContext(t *testing.T) {
	eval := newTestEvaluator(true)
	scope := newTestScope()
	scope.Bind("GET", map[string]any{"page": "own"})

	assert.Equal(t, "own", eval.ResolvePath("GET.page", scope))
}

func TestEvaluator_Render(t *testing.T) {
	eval := newTestEvaluator(true)
	scope := newTestScope()

	tests := []struct {
		name     string
		expr     string
		expected string
	}{
		{"plain", "name", "bob"},
		{"escaped once", "html", "&lt;b&gt;&quot;Tom&quot; &amp; &#039;Jerry&#039;&lt;/b&gt;"},
		{"stringer escaped", "label", "label:&lt;x&gt;"},
		{"number", "count", "3"},
		{"missing", "nothing", ""},
		{"filter", "name|capitalize", "Bob"},
		{"chained filters", "name|uppercase|lowercase|capitalisefirst", "Bob"},
		{"filter arg", "nothing|default:n/a", "n/a"},
		{"quoted filter arg", `nothing|default:"a | b"`, "a | b"},
		{"filter name case", "name|UPPERCASE", "BOB"},
		{"safe undoes escaping", "html|safe", `<b>"Tom" & 'Jerry'</b>`},
		{"escaping runs before filters", "html|uppercase", "&LT;B&GT;&QUOT;TOM&QUOT; &AMP; &#039;JERRY&#039;&LT;/B&GT;"},
		{"spaces around pipes", " name | capitalize ", "Bob"},
		{"literal", `"<i>"`, "&lt;i&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := eval.Render(tt.expr, scope)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestEvaluator_NoAutoEscape(t *testing.T) {
	eval := newTestEvaluator(false)
	out, err := eval.Render("html", newTestScope())
	require.NoError(t, err)
	assert.Equal(t, `<b>"Tom" & 'Jerry'</b>`, out)
}

func TestEvaluator_EvaluateKeepsRawValues(t *testing.T) {
	eval := newTestEvaluator(true)
	scope := newTestScope()

	v, err := eval.Evaluate("user.tags", scope)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "dev"}, v)

	v, err = eval.Resolve("html", scope)
	require.NoError(t, err)
	assert.Equal(t, `<b>"Tom" & 'Jerry'</b>`, v)
}

func TestEvaluator_UnknownFilter(t *testing.T) {
	eval := newTestEvaluator(true)
	_, err := eval.Render("name|uppercse", newTestScope())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFilter))

	te, ok := AsTemplateError(err)
	require.True(t, ok)
	assert.Contains(t, te.Suggestions, "uppercase")
	assert.Contains(t, err.Error(), "did you mean")
}

func TestEvaluator_FilterFailure(t *testing.T) {
	eval := newTestEvaluator(true)
	_, err := eval.Render("name|truncate:abc", newTestScope())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFilterFailed))
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;&quot;&#039;", EscapeHTML(`&<>"'`))
	assert.Equal(t, "plain", EscapeHTML("plain"))
}
