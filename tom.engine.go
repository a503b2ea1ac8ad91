package tom

import (
	"context"
	"strconv"
	"strings"

	"github.com/lightframe/go-tom/internal"
	"go.uber.org/zap"
)

// Engine is the main entry point of the template compiler. It owns the
// filter and tag registries and the template loader. An Engine is safe for
// concurrent use; every render gets its own Context.
type Engine struct {
	filters  *internal.FilterRegistry
	tags     *internal.TagRegistry
	eval     *internal.Evaluator
	resolver *internal.InheritanceResolver
	config   *engineConfig
	logger   *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	filters := internal.NewFilterRegistry(logger)
	internal.RegisterBuiltinFilters(filters)
	tags := internal.NewTagRegistry(logger)
	internal.RegisterBuiltinTags(tags)

	e := &Engine{
		filters:  filters,
		tags:     tags,
		eval:     internal.NewEvaluator(filters, config.autoEscape, logger),
		resolver: internal.NewInheritanceResolver(config.loader, config.maxInheritanceDepth, logger),
		config:   config,
		logger:   logger,
	}

	for _, f := range config.filters {
		if err := e.RegisterFilter(f.name, f.fn); err != nil {
			return nil, err
		}
	}
	for _, t := range config.tags {
		if err := e.RegisterTag(t.name, t.factory); err != nil {
			return nil, err
		}
	}

	logger.Debug(LogMsgEngineCreated,
		zap.Int(LogFieldFilters, filters.Count()),
		zap.Int(LogFieldTags, tags.Count()),
	)
	return e, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// RegisterFilter adds a filter. Names are case-insensitive.
// Returns an error if a filter with the same name is already registered.
func (e *Engine) RegisterFilter(name string, fn FilterFunc) error {
	if err := e.filters.Register(name, fn); err != nil {
		return NewRegistryError(ErrMsgRegisterFilter, name, err)
	}
	return nil
}

// MustRegisterFilter adds a filter and panics if registration fails.
func (e *Engine) MustRegisterFilter(name string, fn FilterFunc) {
	if err := e.RegisterFilter(name, fn); err != nil {
		panic(err)
	}
}

// RegisterTag adds a tag. The end form of a tag is "end" + name.
// Returns an error if a tag with the same name is already registered.
func (e *Engine) RegisterTag(name string, factory TagFactory) error {
	if err := e.tags.Register(name, factory); err != nil {
		return NewRegistryError(ErrMsgRegisterTag, name, err)
	}
	return nil
}

// MustRegisterTag adds a tag and panics if registration fails.
func (e *Engine) MustRegisterTag(name string, factory TagFactory) {
	if err := e.RegisterTag(name, factory); err != nil {
		panic(err)
	}
}

// Filters returns all registered filter names in sorted order.
func (e *Engine) Filters() []string {
	return e.filters.List()
}

// Tags returns all registered tag names in sorted order.
func (e *Engine) Tags() []string {
	return e.tags.List()
}

// HasFilter reports whether a filter is registered.
func (e *Engine) HasFilter(name string) bool {
	return e.filters.Has(name)
}

// HasTag reports whether a tag is registered.
func (e *Engine) HasTag(name string) bool {
	return e.tags.Has(name)
}

// Loader returns the configured loader, or nil.
func (e *Engine) Loader() Loader {
	return e.config.loader
}

// IsTemplateName reports whether Compile treats s as a template name rather
// than as template source.
func IsTemplateName(s string) bool {
	return len(s) < TemplateNameMaxLength && strings.HasSuffix(s, TemplateFileExtension)
}

// Compile renders a template. Short strings ending in ".html" are loaded
// through the engine's loader; anything else is rendered as inline source.
// A nil data renders against an empty Context.
func (e *Engine) Compile(ctx context.Context, sourceOrName string, data *Context) (string, error) {
	if IsTemplateName(sourceOrName) {
		return e.CompileFile(ctx, sourceOrName, data)
	}
	return e.CompileString(ctx, sourceOrName, data)
}

// CompileFile loads the named template and renders it.
func (e *Engine) CompileFile(ctx context.Context, name string, data *Context) (string, error) {
	src, err := e.load(ctx, name)
	if err != nil {
		return "", err
	}
	e.logger.Debug(LogMsgNamedTemplate, zap.String(LogFieldTemplate, src.Name))
	return e.render(ctx, src.Name, src.Body, data)
}

// CompileString renders inline template source.
func (e *Engine) CompileString(ctx context.Context, source string, data *Context) (string, error) {
	e.logger.Debug(LogMsgInlineSource, zap.Int(LogFieldBytes, len(source)))
	return e.render(ctx, "", source, data)
}

// Execute is a convenience method that renders inline source against a
// plain map.
func (e *Engine) Execute(ctx context.Context, source string, data map[string]any) (string, error) {
	return e.CompileString(ctx, source, NewContext(data))
}

// Tokenize splits source into nodes without resolving or rendering it.
func (e *Engine) Tokenize(source string) ([]Node, error) {
	nodes, err := internal.Tokenize(source, "", e.logger)
	if err != nil {
		return nil, wrapError(err)
	}
	return nodes, nil
}

// Resolve returns the nodes of a template after its extends chain has been
// applied. sourceOrName follows the same rules as Compile.
func (e *Engine) Resolve(ctx context.Context, sourceOrName string) ([]Node, error) {
	name, source, err := e.source(ctx, sourceOrName)
	if err != nil {
		return nil, err
	}
	nodes, err := e.resolve(ctx, name, source)
	if err != nil {
		return nil, wrapError(err)
	}
	return nodes, nil
}

// source returns the name and body Compile would render for sourceOrName.
func (e *Engine) source(ctx context.Context, sourceOrName string) (string, string, error) {
	if !IsTemplateName(sourceOrName) {
		return "", sourceOrName, nil
	}
	src, err := e.load(ctx, sourceOrName)
	if err != nil {
		return "", "", err
	}
	return src.Name, src.Body, nil
}

// load fetches a named template, converting loader failures into
// TemplateNotFound errors.
func (e *Engine) load(ctx context.Context, name string) (*Source, error) {
	if e.config.loader == nil {
		return nil, wrapError(internal.NewTemplateError(KindTemplateNotFound, ErrMsgNoLoader+": "+strconv.Quote(name), Position{}))
	}
	clean, err := CleanTemplateName(name)
	if err != nil {
		return nil, wrapError(internal.NewTemplateErrorWithCause(KindTemplateNotFound, ErrMsgInvalidTemplateName, Position{}, err).WithTemplate(name))
	}

	src, err := e.config.loader.Load(ctx, clean)
	if err != nil {
		if ctx.Err() != nil {
			return nil, wrapError(err)
		}
		return nil, wrapError(internal.NewTemplateErrorWithCause(KindTemplateNotFound, ErrMsgTemplateNotFound, Position{}, err).WithTemplate(clean))
	}
	if src.Name == "" {
		src.Name = clean
	}
	e.logger.Debug(LogMsgTemplateLoaded, zap.String(LogFieldTemplate, src.Name), zap.Int(LogFieldBytes, len(src.Body)))
	return src, nil
}

func (e *Engine) resolve(ctx context.Context, name, source string) ([]internal.Node, error) {
	nodes, err := internal.Tokenize(source, name, e.logger)
	if err != nil {
		return nil, err
	}
	return e.resolver.Resolve(ctx, name, nodes)
}

func (e *Engine) render(ctx context.Context, name, source string, data *Context) (string, error) {
	e.logger.Debug(LogMsgCompileStart, zap.String(LogFieldTemplate, name))

	nodes, err := e.resolve(ctx, name, source)
	if err != nil {
		return "", wrapError(err)
	}
	if data == nil {
		data = NewContext(nil)
	}

	rt := internal.NewRuntime(ctx, e.tags, e.eval, data.scope, e.logger, e.config.maxDepth)
	out, err := rt.Render(nodes)
	if err != nil {
		if ctx.Err() != nil {
			e.logger.Debug(LogMsgRenderCancelled, zap.String(LogFieldTemplate, name), zap.Error(err))
		}
		return "", wrapError(err)
	}

	e.logger.Debug(LogMsgCompileEnd,
		zap.String(LogFieldTemplate, name),
		zap.Int(LogFieldOutputSize, len(out)),
	)
	return out, nil
}
