package pagekit

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
)

// Router is a thin wrapper around a chi router with a fluent API.
type Router struct {
	r      chi.Router
	server *Server
}

// NewRouter creates a new Router instance.
func NewRouter() *Router {
	return &Router{r: chi.NewRouter()}
}

// Registrer is implemented by controllers that need the server before
// registering their routes.
type Registrer interface {
	Init(*Server)
	RegisterRoutes(*Router)
}

// Controller initializes controller with the server and lets it register
// its routes.
func (rt *Router) Controller(controller Registrer) *Router {
	if rt == nil || controller == nil {
		return rt
	}
	controller.Init(rt.server)
	controller.RegisterRoutes(rt)
	return rt
}

// Use appends middlewares to the router stack.
func (rt *Router) Use(mws ...func(http.Handler) http.Handler) *Router {
	rt.r.Use(mws...)
	return rt
}

func (rt *Router) Get(p string, h interface{}, mws ...func(http.Handler) http.Handler) *RouteChain {
	return rt.Group("/").Get(p, h, mws...)
}

func (rt *Router) Post(p string, h interface{}, mws ...func(http.Handler) http.Handler) *RouteChain {
	return rt.Group("/").Post(p, h, mws...)
}

func (rt *Router) Patch(p string, h interface{}, mws ...func(http.Handler) http.Handler) *RouteChain {
	return rt.Group("/").Patch(p, h, mws...)
}

func (rt *Router) Delete(p string, h interface{}, mws ...func(http.Handler) http.Handler) *RouteChain {
	return rt.Group("/").Delete(p, h, mws...)
}

// Handler returns the underlying http.Handler.
func (rt *Router) Handler() http.Handler {
	return rt.r
}

// Group creates a route group rooted at prefix.
func (rt *Router) Group(prefix string) *Group {
	return &Group{parent: rt.r, prefix: prefix}
}

// Group represents a group of routes under a common prefix.
type Group struct {
	parent chi.Router
	prefix string
}

// With returns a new Group applying mws to every route registered through it.
func (g *Group) With(mws ...func(http.Handler) http.Handler) *Group {
	return &Group{parent: g.parent.With(mws...), prefix: g.prefix}
}

func join(prefix, p string) string {
	if prefix == "" || prefix == "/" {
		return p
	}
	return path.Join(prefix, p)
}

// RouteChain holds per-route middlewares registered after the route itself.
type RouteChain struct {
	mws []func(http.Handler) http.Handler
}

// Middleware wraps the route handler with mws, outermost first:
//
//	group.Post("/", h).Middleware(mw1, mw2)
func (rc *RouteChain) Middleware(mws ...func(http.Handler) http.Handler) *RouteChain {
	rc.mws = append(rc.mws, mws...)
	return rc
}

// handlerToHTTP accepts an http.HandlerFunc, a plain func(w, r) or a
// func(*Response, *Request).
func handlerToHTTP(h interface{}) http.HandlerFunc {
	switch v := h.(type) {
	case http.HandlerFunc:
		return v
	case func(http.ResponseWriter, *http.Request):
		return v
	case func(*Response, *Request):
		return Adapt(v)
	default:
		return http.NotFound
	}
}

// register mounts h on chi. Patterns such as {id:[0-9]+} are handed to chi
// as is, so the regexp constrains the match.
func (g *Group) register(method, p string, h interface{}, mws []func(http.Handler) http.Handler) *RouteChain {
	hf := handlerToHTTP(h)
	rc := &RouteChain{}

	g.parent.With(mws...).Method(method, join(g.prefix, p), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		final := http.Handler(hf)
		for i := len(rc.mws) - 1; i >= 0; i-- {
			final = rc.mws[i](final)
		}
		final.ServeHTTP(w, r)
	}))
	return rc
}

func (g *Group) Get(p string, h interface{}, mws ...func(http.Handler) http.Handler) *RouteChain {
	return g.register(http.MethodGet, p, h, mws)
}

func (g *Group) Post(p string, h interface{}, mws ...func(http.Handler) http.Handler) *RouteChain {
	return g.register(http.MethodPost, p, h, mws)
}

func (g *Group) Patch(p string, h interface{}, mws ...func(http.Handler) http.Handler) *RouteChain {
	return g.register(http.MethodPatch, p, h, mws)
}

func (g *Group) Delete(p string, h interface{}, mws ...func(http.Handler) http.Handler) *RouteChain {
	return g.register(http.MethodDelete, p, h, mws)
}

// Param returns a URL parameter by name.
func Param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
