// Package tom is a template compiler for HTML pages with block inheritance,
// a small tag language and a filter pipeline.
//
// Templates use three delimiters:
//
//	{{ user.name|capitalize }}   variable with filters
//	{% if x equals 1 %}...{% endif %}   tag, optionally with a body
//	{# ignored #}                comment
//
// # Basic Usage
//
// Create an engine and render inline source:
//
//	engine := tom.MustNew()
//	out, err := engine.Execute(ctx, "Hello {{ name|capitalize }}!", map[string]any{
//	    "name": "bob",
//	})
//	// out: "Hello Bob!"
//
// Textual variable output is HTML-escaped once before filters run; the safe
// filter undoes it.
//
// # Templates and Inheritance
//
// With a loader configured, Compile loads short names ending in ".html":
//
//	loader, _ := tom.NewFilesystemLoader("./views", "/usr/share/lightframe/views")
//	engine := tom.MustNew(tom.WithLoader(loader))
//	out, err := engine.Compile(ctx, "pages/home.html", tom.NewContext(data))
//
// A template whose first node is {% extends "base.html" %} is spliced into
// its parent: every {% block name %}...{% endblock %} of the parent is
// replaced by the child's block of the same name or keeps its default.
// Relative parent paths resolve against the extending template's directory.
//
// # Built-in Tags
//
//	if / elseif / else    {% if x isgreater 5 orequals %} or {% if isgreater:x than:5 orequals %}
//	foreach               {% foreach items:item %}{{ item }}{% endforeach %}
//	count                 {% count items " item" " items" %}
//	comment               {% comment %}...{% endcomment %}
//	lowercase, uppercase  case-fold the rendered body
//	transform             {% transform spacesunderscores %}...{% endtransform %}
//	verbatim              body rendered as literal text
//	debug                 logs the resolved arguments
//
// # Custom Tags and Filters
//
//	engine.MustRegisterFilter("shout", func(v, _ string) (string, error) {
//	    return v + "!", nil
//	})
//	engine.MustRegisterTag("greet", func() tom.TagHandler {
//	    return tom.TagFunc(func(inv *tom.Invocation) (string, error) {
//	        return "hello", nil
//	    })
//	})
//
// A tag named x has a body when a matching {% endx %} follows at the same
// nesting depth. Handlers receive a fresh instance per invocation.
//
// # Errors
//
// Every error returned by a render is a *cuserr.CustomError with template,
// tag, line and column metadata and matches one of the sentinels
// ErrTemplateNotFound, ErrMalformedTag, ErrUnknownFilter,
// ErrInvalidComparison, ErrParse, ErrCircularExtends or ErrFilterFailed
// with errors.Is. Renders never return partial output.
package tom
