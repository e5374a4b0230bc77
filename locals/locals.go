package locals

import (
	"context"
	"net/http"
	"sync"
)

type ctxKey string

const localsKey ctxKey = "pagekit.locals"

// Locals is the per-request record shared between middlewares, handlers and
// templates. A new one is created for every request and dropped with it.
type Locals struct {
	// HTMX is true when the request was issued by htmx. It is written once
	// by the annotator before any handler runs and is read-only afterwards,
	// so it is not guarded by mu.
	HTMX bool

	mu     sync.RWMutex
	values map[string]any
}

// New returns an empty Locals.
func New() *Locals {
	return &Locals{values: make(map[string]any)}
}

// Set stores a named value.
func (l *Locals) Set(key string, v any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.values == nil {
		l.values = make(map[string]any)
	}
	l.values[key] = v
}

// Get returns a named value and whether it was set.
func (l *Locals) Get(key string) (any, bool) {
	if l == nil {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok
}

// All returns a copy of the named values. The HTMX flag is included under
// the "htmx" key so templates see a single map.
func (l *Locals) All() map[string]any {
	out := make(map[string]any)
	if l == nil {
		return out
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for k, v := range l.values {
		out[k] = v
	}
	out["htmx"] = l.HTMX
	return out
}

// With returns a copy of ctx carrying l.
func With(ctx context.Context, l *Locals) context.Context {
	return context.WithValue(ctx, localsKey, l)
}

// From returns the Locals stored in ctx, or nil.
func From(ctx context.Context) *Locals {
	if ctx == nil {
		return nil
	}
	l, _ := ctx.Value(localsKey).(*Locals)
	return l
}

// FromRequest returns the Locals attached to r, or nil.
func FromRequest(r *http.Request) *Locals {
	if r == nil {
		return nil
	}
	return From(r.Context())
}

// Ensure returns the request's Locals. When none is attached a new one is
// created and the returned request carries it.
func Ensure(r *http.Request) (*Locals, *http.Request) {
	if l := FromRequest(r); l != nil {
		return l, r
	}
	l := New()
	return l, r.WithContext(With(r.Context(), l))
}

// Middleware attaches a fresh Locals to every request before calling next.
// A Locals already present on the request is kept.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, r = Ensure(r)
		next.ServeHTTP(w, r)
	})
}
