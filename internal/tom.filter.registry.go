package internal

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FilterFunc transforms the string produced by the previous pipeline stage.
// arg is the optional text after "name:" and is empty when absent.
type FilterFunc func(value, arg string) (string, error)

// FilterRegistry maps lower-cased filter names to functions with
// first-come-wins semantics. It is safe for concurrent use.
type FilterRegistry struct {
	filters map[string]FilterFunc
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewFilterRegistry creates an empty filter registry.
func NewFilterRegistry(logger *zap.Logger) *FilterRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &FilterRegistry{
		filters: make(map[string]FilterFunc),
		logger:  logger,
	}
}

// Register adds a filter. A name that is already taken keeps its first
// registration and an error is returned.
func (r *FilterRegistry) Register(name string, fn FilterFunc) error {
	if fn == nil {
		return NewRegistryError(ErrMsgNilFilter, name)
	}
	if !validName(name) {
		return NewRegistryError(ErrMsgInvalidName, name)
	}
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.filters[key]; exists {
		r.logger.Warn(LogMsgFilterCollision, zap.String(LogFieldFilter, key))
		return NewRegistryError(ErrMsgFilterAlreadyExists, key)
	}

	r.filters[key] = fn
	r.logger.Debug(LogMsgFilterRegistered, zap.String(LogFieldFilter, key))
	return nil
}

// MustRegister adds a filter and panics if registration fails.
func (r *FilterRegistry) MustRegister(name string, fn FilterFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get retrieves a filter by name, case-insensitively.
func (r *FilterRegistry) Get(name string) (FilterFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.filters[strings.ToLower(name)]
	return fn, ok
}

// Has checks if a filter is registered
func (r *FilterRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all registered filter names in sorted order.
func (r *FilterRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered filters
func (r *FilterRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filters)
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t\r\n")
}

// RegistryError represents a registry operation error
type RegistryError struct {
	Message string
	Name    string
}

// NewRegistryError creates a new registry error
func NewRegistryError(message, name string) *RegistryError {
	return &RegistryError{
		Message: message,
		Name:    name,
	}
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf(ErrFmtTagMessage, e.Message, e.Name)
	}
	return e.Message
}
