package router

import (
	"context"
	"net/http"

	"github.com/pixelfit/backend/config"
	"github.com/pixelfit/backend/pkg/logger"
	"github.com/pixelfit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc may replace the request context. Returning a nil context
// keeps the current one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written, regardless of outcome.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux    *http.ServeMux
	cfg    *config.Configs
	logger logger.Logger
	db     *gorm.DB

	befores  []MiddlewareFunc
	afters   []MiddlewareFunc
	closers  []CloserFunc
	wrappers []func(http.Handler) http.Handler
}

func New(db *gorm.DB, cfg *config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
}

// Branch shares the underlying mux but gets its own middleware chains, so
// route groups can differ in authentication requirements.
func (r *Router) Branch() *Router {
	branch := &Router{
		mux:    r.mux,
		cfg:    r.cfg,
		logger: r.logger,
		db:     r.db,
	}
	branch.befores = append(branch.befores, r.befores...)
	branch.afters = append(branch.afters, r.afters...)
	branch.closers = append(branch.closers, r.closers...)
	return branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Wrap installs a plain http middleware (e.g. CORS) around the whole mux.
func (r *Router) Wrap(wrapper func(http.Handler) http.Handler) {
	r.wrappers = append(r.wrappers, wrapper)
}

func (r *Router) Handler() http.Handler {
	var handler http.Handler = r.mux
	for i := len(r.wrappers) - 1; i >= 0; i-- {
		handler = r.wrappers[i](handler)
	}
	return handler
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) newRequestContext(w http.ResponseWriter, req *http.Request) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	return ctx
}
