package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLexer_Tokenize_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Node
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:  "plain text",
			input: "Hello, world!",
			expected: []Node{
				{Kind: NodeText, Raw: "Hello, world!", Content: "Hello, world!", Pos: Position{Offset: 0, Line: 1, Column: 1}},
			},
		},
		{
			name:  "variable",
			input: "Hi {{ name }}!",
			expected: []Node{
				{Kind: NodeText, Raw: "Hi ", Content: "Hi ", Pos: Position{Offset: 0, Line: 1, Column: 1}},
				{Kind: NodeVariable, Raw: "{{ name }}", Content: "name", Pos: Position{Offset: 3, Line: 1, Column: 4}},
				{Kind: NodeText, Raw: "!", Content: "!", Pos: Position{Offset: 13, Line: 1, Column: 14}},
			},
		},
		{
			name:  "tag and comment",
			input: "{% if x %}{# note #}",
			expected: []Node{
				{Kind: NodeTag, Raw: "{% if x %}", Content: "if x", Pos: Position{Offset: 0, Line: 1, Column: 1}},
				{Kind: NodeComment, Raw: "{# note #}", Content: "note", Pos: Position{Offset: 10, Line: 1, Column: 11}},
			},
		},
		{
			name:  "empty comment is allowed",
			input: "{##}",
			expected: []Node{
				{Kind: NodeComment, Raw: "{##}", Content: "", Pos: Position{Offset: 0, Line: 1, Column: 1}},
			},
		},
		{
			name:  "positions across lines",
			input: "a\n{{ b }}",
			expected: []Node{
				{Kind: NodeText, Raw: "a\n", Content: "a\n", Pos: Position{Offset: 0, Line: 1, Column: 1}},
				{Kind: NodeVariable, Raw: "{{ b }}", Content: "b", Pos: Position{Offset: 2, Line: 2, Column: 1}},
			},
		},
		{
			name:  "first closing delimiter wins",
			input: "{{ a }} }}",
			expected: []Node{
				{Kind: NodeVariable, Raw: "{{ a }}", Content: "a", Pos: Position{Offset: 0, Line: 1, Column: 1}},
				{Kind: NodeText, Raw: " }}", Content: " }}", Pos: Position{Offset: 7, Line: 1, Column: 8}},
			},
		},
		{
			name:  "single braces are text",
			input: "a { b } c",
			expected: []Node{
				{Kind: NodeText, Raw: "a { b } c", Content: "a { b } c", Pos: Position{Offset: 0, Line: 1, Column: 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := NewLexer(tt.input, "", zap.NewNop()).Tokenize()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, nodes)
		})
	}
}

func TestLexer_Tokenize_RoundTrip(t *testing.T) {
	sources := []string{
		"",
		"plain",
		"Hello {{ name|capitalize }}!",
		"{% if x equals 1 %}A{% else %}B{% endif %}",
		"{% foreach items:item %}{{ item }},{% endforeach %}",
		"line one\n{# comment #}\n  {% block content %}\n{{ a.b.c }}{% endblock content %}\n",
		"{ not a tag } and {{x}}{%y%}{#z#}",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			nodes, err := Tokenize(src, "", nil)
			require.NoError(t, err)
			assert.Equal(t, src, JoinRaw(nodes))
			for _, n := range nodes {
				assert.NotEmpty(t, n.Raw)
			}
		})
	}
}

func TestLexer_Tokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		pos     Position
	}{
		{"unterminated tag", "abc {% if x", ErrMsgUnterminatedTag, Position{Offset: 4, Line: 1, Column: 5}},
		{"unterminated variable", "{{ name", ErrMsgUnterminatedVariable, Position{Offset: 0, Line: 1, Column: 1}},
		{"unterminated comment", "x\n{# note", ErrMsgUnterminatedComment, Position{Offset: 2, Line: 2, Column: 1}},
		{"tag closed on next line", "{% if x\n%}", ErrMsgUnterminatedTag, Position{Offset: 0, Line: 1, Column: 1}},
		{"empty tag", "{% %}", ErrMsgEmptyTag, Position{Offset: 0, Line: 1, Column: 1}},
		{"empty variable", "a{{   }}", ErrMsgEmptyVariable, Position{Offset: 1, Line: 1, Column: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(tt.input, "page.html", nil).Tokenize()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))

			te, ok := AsTemplateError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, te.Message)
			assert.Equal(t, tt.pos, te.Position)
			assert.Equal(t, "page.html", te.Template)
		})
	}
}

func TestLexer_Tokenize_TemplateName(t *testing.T) {
	nodes, err := Tokenize("a{{ b }}", "/views/home.html", nil)
	require.NoError(t, err)
	for _, n := range nodes {
		assert.Equal(t, "/views/home.html", n.Template)
	}
}

func TestNode_TagHelpers(t *testing.T) {
	nodes, err := Tokenize("{% block  content %}{{ x }}", "", nil)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.True(t, nodes[0].IsTag())
	assert.Equal(t, "block", nodes[0].TagName())
	assert.Equal(t, "content", nodes[0].TagArgs())
	assert.True(t, nodes[0].IsTagNamed(TagNameBlock))

	assert.False(t, nodes[1].IsTag())
	assert.Equal(t, "", nodes[1].TagName())
	assert.Equal(t, "", nodes[1].TagArgs())
	assert.Equal(t, NodeKindNameVariable, nodes[1].Kind.String())
}
