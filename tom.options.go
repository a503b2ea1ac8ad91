package tom

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	loader              Loader
	maxDepth            int
	maxInheritanceDepth int
	autoEscape          bool
	logger              *zap.Logger
	filters             []namedFilter
	tags                []namedTag
}

type namedFilter struct {
	name string
	fn   FilterFunc
}

type namedTag struct {
	name    string
	factory TagFactory
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		maxDepth:            DefaultMaxDepth,
		maxInheritanceDepth: DefaultMaxInheritanceDepth,
		autoEscape:          DefaultAutoEscape,
		logger:              nil,
	}
}

// WithLoader sets the loader used for named templates and extends parents.
// Default: nil (only inline sources can be compiled)
func WithLoader(loader Loader) Option {
	return func(c *engineConfig) {
		c.loader = loader
	}
}

// WithMaxDepth sets the maximum tag nesting depth.
// Values <= 0 fall back to the default.
// Default: 100
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithMaxInheritanceDepth sets how many extends levels a template may chain.
// Default: 10
func WithMaxInheritanceDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxInheritanceDepth = depth
	}
}

// WithAutoEscape controls HTML escaping of textual variable output.
// Default: true
func WithAutoEscape(enabled bool) Option {
	return func(c *engineConfig) {
		c.autoEscape = enabled
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithFilter registers a custom filter when the engine is created.
// New fails if the name is already taken by a built-in filter.
func WithFilter(name string, fn FilterFunc) Option {
	return func(c *engineConfig) {
		c.filters = append(c.filters, namedFilter{name: name, fn: fn})
	}
}

// WithTag registers a custom tag when the engine is created.
// New fails if the name is already taken by a built-in tag.
func WithTag(name string, factory TagFactory) Option {
	return func(c *engineConfig) {
		c.tags = append(c.tags, namedTag{name: name, factory: factory})
	}
}
