package internal

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// TagHandler renders one tag invocation. A fresh handler is built for every
// invocation, so handlers may keep per-invocation state.
type TagHandler interface {
	Evaluate(inv *Invocation) (string, error)
}

// TagFactory constructs a handler for a single invocation.
type TagFactory func() TagHandler

// TagFunc adapts a plain function to TagHandler.
type TagFunc func(inv *Invocation) (string, error)

// Evaluate calls f(inv).
func (f TagFunc) Evaluate(inv *Invocation) (string, error) {
	return f(inv)
}

// Sentinel is implemented by handlers whose tags only mark a position for an
// enclosing tag, such as else and elseif.
type Sentinel interface {
	IsSentinel() bool
}

// TagRegistry maps tag names to factories with first-come-wins semantics.
// It is safe for concurrent use.
type TagRegistry struct {
	factories map[string]TagFactory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewTagRegistry creates an empty tag registry.
func NewTagRegistry(logger *zap.Logger) *TagRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &TagRegistry{
		factories: make(map[string]TagFactory),
		logger:    logger,
	}
}

// Register adds a tag factory. A name that is already taken keeps its first
// registration and an error is returned.
func (r *TagRegistry) Register(name string, factory TagFactory) error {
	if factory == nil {
		return NewRegistryError(ErrMsgNilFactory, name)
	}
	if !validName(name) {
		return NewRegistryError(ErrMsgInvalidName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		r.logger.Warn(LogMsgTagCollision, zap.String(LogFieldTagName, name))
		return NewRegistryError(ErrMsgTagAlreadyExists, name)
	}

	r.factories[name] = factory
	r.logger.Debug(LogMsgTagRegistered, zap.String(LogFieldTagName, name))
	return nil
}

// MustRegister adds a tag factory and panics if registration fails.
// Use this for built-in tags that must always be available.
func (r *TagRegistry) MustRegister(name string, factory TagFactory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Get retrieves a tag factory by name.
func (r *TagRegistry) Get(name string) (TagFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[name]
	return f, ok
}

// Has checks if a tag is registered for the given name.
func (r *TagRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all registered tag names in sorted order.
func (r *TagRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tags.
func (r *TagRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.factories)
}
