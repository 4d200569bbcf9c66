package server

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spherecast/spherecast/internal/httputil"
	"github.com/spherecast/spherecast/internal/kvstore"
	"github.com/spherecast/spherecast/internal/ratelimit"
	"github.com/spherecast/spherecast/internal/resolve"
	"github.com/spherecast/spherecast/internal/session"
	"github.com/spherecast/spherecast/internal/validate"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type RateLimits struct {
	ResolveRPS   float64
	ResolveBurst int
	StorageRPS   float64
	StorageBurst int
}

func (l RateLimits) withDefaults() RateLimits {
	if l.ResolveRPS <= 0 {
		l.ResolveRPS = 1
	}
	if l.ResolveBurst <= 0 {
		l.ResolveBurst = 5
	}
	if l.StorageRPS <= 0 {
		l.StorageRPS = 5
	}
	if l.StorageBurst <= 0 {
		l.StorageBurst = 20
	}
	return l
}

type Config struct {
	Pinger   Pinger
	Resolver resolve.Resolver
	Store    kvstore.Store
	// SessionSecret signs client cookies; storage routes need it.
	SessionSecret         string
	WebFS                 fs.FS
	BaseURL               string
	ScriptOrigins         []string
	AllowedFrameAncestors string
	RateLimits            RateLimits
}

type Server struct {
	router         chi.Router
	pinger         Pinger
	resolveHandler *resolve.Handler
	storageHandler *kvstore.Handler
	sessions       *session.Manager
	limits         RateLimits
	webFS          fs.FS
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(slogMiddleware)

	scriptOrigins := cfg.ScriptOrigins
	if scriptOrigins == nil {
		scriptOrigins = DefaultScriptOrigins
	}
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:               cfg.BaseURL,
		ScriptOrigins:         scriptOrigins,
		AllowedFrameAncestors: cfg.AllowedFrameAncestors,
	}))

	s := &Server{
		router: r,
		pinger: cfg.Pinger,
		limits: cfg.RateLimits.withDefaults(),
		webFS:  cfg.WebFS,
	}

	if cfg.Resolver != nil {
		s.resolveHandler = resolve.NewHandler(cfg.Resolver)
	}
	if cfg.Store != nil && cfg.SessionSecret != "" {
		s.storageHandler = kvstore.NewHandler(cfg.Store)
		s.sessions = session.NewManager(cfg.SessionSecret, hasHTTPS(cfg.BaseURL))
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/limits", s.handleLimits)
	s.router.Handle("/metrics", promhttp.Handler())

	if s.resolveHandler != nil {
		resolveLimiter := ratelimit.NewLimiter("resolve", s.limits.ResolveRPS, s.limits.ResolveBurst)
		s.router.With(resolveLimiter.Middleware).Get("/api/resolve", s.resolveHandler.Resolve)
	}

	if s.storageHandler != nil {
		storageLimiter := ratelimit.NewLimiter("storage", s.limits.StorageRPS, s.limits.StorageBurst)
		s.router.Route("/api/storage", func(r chi.Router) {
			r.Use(s.sessions.Middleware)
			r.Use(storageLimiter.Middleware)
			r.Get("/{key}", s.storageHandler.Get)
			r.Put("/{key}", s.storageHandler.Put)
			r.Delete("/{key}", s.storageHandler.Delete)
		})
	}

	if s.webFS != nil {
		var spa http.Handler = newSPAFileServer(s.webFS)
		if s.sessions != nil {
			spa = s.sessions.Middleware(spa)
		}
		s.router.NotFound(spa.ServeHTTP)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","error":"storage unreachable"}`))
			return
		}
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, validate.FieldLimits())
}
