package redirector

import (
	"context"
	"sync/atomic"
)

// Current holds the active Resolver and lets it be replaced while
// requests are being served. Requests already resolving keep the
// Resolver they loaded.
type Current struct {
	p atomic.Pointer[Resolver]
}

// NewCurrent returns a Current holding r.
func NewCurrent(r *Resolver) *Current {
	c := &Current{}
	c.Store(r)

	return c
}

// Load returns the active Resolver.
func (c *Current) Load() *Resolver {
	return c.p.Load()
}

// Store replaces the active Resolver.
func (c *Current) Store(r *Resolver) {
	c.p.Store(r)
}

// Resolve resolves with the active Resolver. A Current holding nothing
// resolves every request to NotFound.
func (c *Current) Resolve(ctx context.Context, path string, query Query) Outcome {
	r := c.Load()
	if r == nil {
		return NotFound("")
	}

	return r.Resolve(ctx, path, query)
}
