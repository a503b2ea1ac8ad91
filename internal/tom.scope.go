package internal

import (
	"sort"
)

// Scope is the name to value environment a render resolves against.
// Reserved holds host-injected roots (GET, POST, SESSION, ENV, "/") that
// are consulted only after ordinary keys.
type Scope interface {
	Lookup(name string) (any, bool)
	Reserved(name string) (any, bool)
	Has(name string) bool
	Bind(name string, value any)
	Unbind(name string)
	Keys() []string
}

// MapScope is a Scope backed by two maps. It is not safe for concurrent use.
type MapScope struct {
	data     map[string]any
	reserved map[string]any
}

// NewMapScope creates a scope over data. The map is used directly, not copied.
func NewMapScope(data map[string]any) *MapScope {
	if data == nil {
		data = make(map[string]any)
	}
	return &MapScope{
		data:     data,
		reserved: make(map[string]any),
	}
}

// Lookup returns the value bound to name.
func (s *MapScope) Lookup(name string) (any, bool) {
	v, ok := s.data[name]
	return v, ok
}

// Reserved returns a host-injected root value.
func (s *MapScope) Reserved(name string) (any, bool) {
	v, ok := s.reserved[name]
	return v, ok
}

// SetReserved installs a host-injected root value.
func (s *MapScope) SetReserved(name string, value any) {
	s.reserved[name] = value
}

// Has reports whether name is bound.
func (s *MapScope) Has(name string) bool {
	_, ok := s.data[name]
	return ok
}

// Bind sets name to value.
func (s *MapScope) Bind(name string, value any) {
	s.data[name] = value
}

// Unbind removes name.
func (s *MapScope) Unbind(name string) {
	delete(s.data, name)
}

// Keys returns the bound names in sorted order.
func (s *MapScope) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Data returns the backing map.
func (s *MapScope) Data() map[string]any {
	return s.data
}
