package pagekit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-kyugo/pagekit/config"
	"github.com/go-kyugo/pagekit/locals"
	"github.com/go-kyugo/pagekit/logger"
	"github.com/go-kyugo/pagekit/middleware"
	"github.com/go-kyugo/pagekit/render"
)

// Options configures the created server.
type Options struct {
	// Config carries the application configuration. Defaults to config.ConfigVar.
	Config *config.Config
	// Handler is served behind the default middlewares. When nil the server
	// creates a Router, available through Server.Router.
	Handler http.Handler
	// Renderer overrides the renderer built from Config.Views.
	Renderer *render.Renderer
	// Logger overrides the logger picked from Config.App.Debug.
	Logger *logger.Logger
	// DefaultMiddlewares run after the built-in ones, in order.
	DefaultMiddlewares []func(http.Handler) http.Handler
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
}

type Server struct {
	srv      *http.Server
	logger   *logger.Logger
	Config   *config.Config
	renderer *render.Renderer
	router   *Router
	// services holds arbitrary service instances registered with the server.
	services map[string]interface{}
	svcMu    sync.RWMutex
}

// NewServer builds the handler chain. Every request first gets its locals
// and the htmx flag, so user middlewares and handlers can rely on both.
func NewServer(opts Options) (*Server, error) {
	c := opts.Config
	if c == nil {
		c = &config.ConfigVar
	}

	std := opts.Logger
	if std == nil {
		if c.App.Debug {
			std = logger.NewConsole(os.Stdout, logger.LevelDebug, true)
		} else {
			std = logger.NewConsole(os.Stdout, logger.LevelInfo, false)
		}
	}
	logger.SetStd(std)

	annotate, err := middleware.Annotator(middleware.Options{Header: c.Htmx.Header, Value: c.Htmx.Value})
	if err != nil {
		return nil, err
	}

	rd := opts.Renderer
	if rd == nil && c.Views.Dir != "" {
		rd = render.NewFromDir(c.Views.Dir, render.Options{
			Layout:     c.Views.Layout,
			DevMode:    c.Views.DevMode,
			VaryHeader: c.Htmx.Header,
		})
	}

	s := &Server{logger: std, Config: c, renderer: rd, services: make(map[string]interface{})}

	base := opts.Handler
	if base == nil {
		s.router = NewRouter()
		s.router.server = s
		base = s.router.Handler()
	}

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.renderer != nil {
			r = r.WithContext(withRenderer(r.Context(), s.renderer))
		}
		base.ServeHTTP(w, r)
	})

	mws := []func(http.Handler) http.Handler{
		locals.Middleware,
		annotate,
		middleware.Logger(std),
		middleware.CORS(c.Server.Cors),
	}
	mws = append(mws, opts.DefaultMiddlewares...)
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	readTimeout := opts.ReadTimeout
	if readTimeout == 0 {
		readTimeout = time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
	}

	s.srv = &http.Server{
		Addr:         c.Addr(),
		Handler:      h,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return s, nil
}

// Handler returns the full handler chain.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Router returns the internal router, nil when Options.Handler was given.
func (s *Server) Router() *Router {
	if s == nil {
		return nil
	}
	return s.router
}

// Renderer returns the page renderer, or nil when no views are configured.
func (s *Server) Renderer() *render.Renderer {
	return s.renderer
}

// RegisterRoutes calls register with the internal router, then registers
// every controller implementing RegisterRoutes(*Router).
func (s *Server) RegisterRoutes(register func(*Server, *Router), ctrls ...interface{}) {
	if s == nil || s.router == nil {
		return
	}
	if register != nil {
		register(s, s.router)
	}
	for _, c := range ctrls {
		if r, ok := c.(interface{ RegisterRoutes(*Router) }); ok {
			r.RegisterRoutes(s.router)
		}
	}
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("Server.Start", logger.Fields{"addr": s.srv.Addr})
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Server.Shutdown", logger.Fields{"addr": s.srv.Addr})
	return s.srv.Shutdown(ctx)
}

// Run starts the server and shuts it down when ctx is done, waiting at most
// grace for in-flight requests.
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

// RegisterService stores a service instance under name.
func (s *Server) RegisterService(name string, svc interface{}) {
	if s == nil {
		return
	}
	s.svcMu.Lock()
	defer s.svcMu.Unlock()
	s.services[name] = svc
}

// Service returns a registered service by name, or nil.
func (s *Server) Service(name string) interface{} {
	if s == nil {
		return nil
	}
	s.svcMu.RLock()
	defer s.svcMu.RUnlock()
	return s.services[name]
}
