package tom

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/lightframe/go-tom/internal"
)

// Source is a loaded template: its canonical name and its body.
type Source = internal.Source

// Loader resolves template names to sources. Names are slash separated and
// rooted ("/layouts/base.html"); relative extends paths are joined to the
// directory of the extending template before they reach a Loader.
// Implementations must be safe for concurrent use.
type Loader = internal.Loader

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, name string) (*Source, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, name string) (*Source, error) {
	return f(ctx, name)
}

// CleanTemplateName canonicalizes a template name to a rooted slash path.
// Empty names and names containing a ".." segment are rejected.
func CleanTemplateName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", NewInvalidTemplateNameError(name)
	}
	for _, seg := range strings.Split(strings.ReplaceAll(name, "\\", "/"), "/") {
		if seg == ".." {
			return "", NewInvalidTemplateNameError(name)
		}
	}
	return path.Clean("/" + name), nil
}

// IsNotFound reports whether err means a template does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// MemoryLoader serves templates from memory.
// It is primarily intended for testing and embedding small template sets.
type MemoryLoader struct {
	mu        sync.RWMutex
	templates map[string]string
}

// NewMemoryLoader creates a loader over the given name to body map.
// Names are canonicalized; invalid names are skipped.
func NewMemoryLoader(templates map[string]string) *MemoryLoader {
	l := &MemoryLoader{templates: make(map[string]string, len(templates))}
	for name, body := range templates {
		_ = l.Set(name, body)
	}
	return l
}

// Set adds or replaces a template.
func (l *MemoryLoader) Set(name, body string) error {
	clean, err := CleanTemplateName(name)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.templates[clean] = body
	return nil
}

// Remove deletes a template. It returns true if the template existed.
func (l *MemoryLoader) Remove(name string) bool {
	clean, err := CleanTemplateName(name)
	if err != nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.templates[clean]; !ok {
		return false
	}
	delete(l.templates, clean)
	return true
}

// Names returns all template names in sorted order.
func (l *MemoryLoader) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load returns the template stored under name.
func (l *MemoryLoader) Load(ctx context.Context, name string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := CleanTemplateName(name)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	body, ok := l.templates[clean]
	if !ok {
		return nil, NewTemplateNotFoundError(clean)
	}
	return &Source{Name: clean, Body: body}, nil
}

// ChainLoader asks each loader in order and returns the first hit.
// A loader reporting "not found" passes the name on to the next one; any
// other error stops the chain.
type ChainLoader struct {
	loaders []Loader
}

// NewChainLoader creates a chain over loaders. Nil loaders are skipped.
func NewChainLoader(loaders ...Loader) *ChainLoader {
	chain := &ChainLoader{loaders: make([]Loader, 0, len(loaders))}
	for _, l := range loaders {
		if l != nil {
			chain.loaders = append(chain.loaders, l)
		}
	}
	return chain
}

// Load implements Loader.
func (c *ChainLoader) Load(ctx context.Context, name string) (*Source, error) {
	for _, l := range c.loaders {
		src, err := l.Load(ctx, name)
		if err == nil {
			return src, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, NewTemplateNotFoundError(name)
}

// LoaderDriver opens a Loader from a driver-specific connection string.
type LoaderDriver interface {
	Open(conn string) (Loader, error)
}

// LoaderDriverFunc adapts a function to the LoaderDriver interface.
type LoaderDriverFunc func(conn string) (Loader, error)

// Open calls f.
func (f LoaderDriverFunc) Open(conn string) (Loader, error) {
	return f(conn)
}

// Loader driver registry
var (
	loaderDriversMu sync.RWMutex
	loaderDrivers   = make(map[string]LoaderDriver)
)

func init() {
	RegisterLoaderDriver(LoaderDriverMemory, LoaderDriverFunc(func(string) (Loader, error) {
		return NewMemoryLoader(nil), nil
	}))
	RegisterLoaderDriver(LoaderDriverFilesystem, LoaderDriverFunc(func(conn string) (Loader, error) {
		return NewFilesystemLoader(splitRoots(conn)...)
	}))
}

// RegisterLoaderDriver registers a loader driver by name.
// Panics if the driver is nil or the name is already taken.
func RegisterLoaderDriver(name string, driver LoaderDriver) {
	loaderDriversMu.Lock()
	defer loaderDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilLoaderDriver)
	}
	if _, exists := loaderDrivers[name]; exists {
		panic(ErrMsgLoaderDriverExists + ": " + name)
	}
	loaderDrivers[name] = driver
}

// OpenLoader opens a loader using the named driver.
//
// Example:
//
//	loader, err := tom.OpenLoader("memory", "")
//	loader, err := tom.OpenLoader("filesystem", "/srv/app/views,/usr/share/lightframe/views")
func OpenLoader(driverName, conn string) (Loader, error) {
	loaderDriversMu.RLock()
	driver, ok := loaderDrivers[driverName]
	loaderDriversMu.RUnlock()

	if !ok {
		return nil, NewLoaderDriverNotFoundError(driverName)
	}
	return driver.Open(conn)
}

// ListLoaderDrivers returns the names of all registered loader drivers.
func ListLoaderDrivers() []string {
	loaderDriversMu.RLock()
	defer loaderDriversMu.RUnlock()

	names := make([]string, 0, len(loaderDrivers))
	for name := range loaderDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func splitRoots(conn string) []string {
	var roots []string
	for _, r := range strings.Split(conn, LoaderConnSeparator) {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, r)
		}
	}
	return roots
}
