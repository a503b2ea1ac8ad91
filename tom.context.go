package tom

import (
	"github.com/lightframe/go-tom/internal"
)

// Request carries the host-supplied values behind the reserved roots GET,
// POST, SESSION, ENV and the site root token "/". The engine never reads
// process state on its own.
type Request struct {
	Get      map[string]any
	Post     map[string]any
	Session  map[string]any
	Env      map[string]string
	SiteRoot string
}

// Context is the name to value environment a template renders against.
// Loop aliases are bound into it for the duration of a foreach and removed
// afterwards. A Context is not safe for concurrent use; give every render
// its own.
type Context struct {
	scope *internal.MapScope
}

// NewContext creates a new render context over data.
// If data is nil, an empty map is used. The map is used directly, not copied.
func NewContext(data map[string]any) *Context {
	scope := internal.NewMapScope(data)
	scope.SetReserved(ReservedSiteRoot, DefaultSiteRoot)
	return &Context{scope: scope}
}

// WithRequest installs the reserved roots from req and returns c.
// Nil maps and an empty site root leave the current values in place.
func (c *Context) WithRequest(req Request) *Context {
	if req.Get != nil {
		c.scope.SetReserved(ReservedGet, req.Get)
	}
	if req.Post != nil {
		c.scope.SetReserved(ReservedPost, req.Post)
	}
	if req.Session != nil {
		c.scope.SetReserved(ReservedSession, req.Session)
	}
	if req.Env != nil {
		c.scope.SetReserved(ReservedEnv, req.Env)
	}
	if req.SiteRoot != "" {
		c.scope.SetReserved(ReservedSiteRoot, req.SiteRoot)
	}
	return c
}

// Get retrieves a top-level value by name.
func (c *Context) Get(name string) (any, bool) {
	return c.scope.Lookup(name)
}

// Set binds name to value.
func (c *Context) Set(name string, value any) {
	c.scope.Bind(name, value)
}

// Delete removes name from the context.
func (c *Context) Delete(name string) {
	c.scope.Unbind(name)
}

// Has reports whether name is bound.
func (c *Context) Has(name string) bool {
	return c.scope.Has(name)
}

// Keys returns the bound names in sorted order.
func (c *Context) Keys() []string {
	return c.scope.Keys()
}

// Data returns the backing map.
func (c *Context) Data() map[string]any {
	return c.scope.Data()
}

// Reserved returns a host-supplied root value such as GET or "/".
func (c *Context) Reserved(name string) (any, bool) {
	return c.scope.Reserved(name)
}
