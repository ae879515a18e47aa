// Package server hosts the promotion dashboard over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/promodash/internal/aggregate"
	"github.com/KaramelBytes/promodash/internal/binding"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionCookie = "promodash_session"

// Defaults applied by New when an option is left zero.
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// Options configures a Server.
type Options struct {
	Defaults binding.Selection
	// SessionTTL evicts sessions idle for longer. Zero means DefaultSessionTTL.
	SessionTTL time.Duration
	// MaxSessions caps live sessions. Zero means DefaultMaxSessions.
	MaxSessions int
	Logger      *slog.Logger
}

// Server serves the dashboard page and its JSON API.
type Server struct {
	reg       *binding.Registry
	sessions  *sessionStore
	summary   aggregate.Summary
	templates *template.Template
	router    *chi.Mux
	log       *slog.Logger
}

// New validates the default selection against the table and wires routes.
func New(reg *binding.Registry, opt Options) (*Server, error) {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.SessionTTL < 0 || opt.MaxSessions < 0 {
		return nil, fmt.Errorf("session ttl and max sessions must not be negative")
	}
	if opt.SessionTTL == 0 {
		opt.SessionTTL = DefaultSessionTTL
	}
	if opt.MaxSessions == 0 {
		opt.MaxSessions = DefaultMaxSessions
	}
	// The default view is rendered once; a bad selection fails here.
	initial, err := binding.NewSession(reg, opt.Defaults)
	if err != nil {
		return nil, fmt.Errorf("default selection: %w", err)
	}
	summary, err := aggregate.Summarize(reg.Table())
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	funcMap := template.FuncMap{
		"mul100": func(x float64) float64 { return x * 100 },
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{
		reg:       reg,
		sessions:  newSessionStore(initial, opt.Defaults, opt.SessionTTL, opt.MaxSessions),
		summary:   summary,
		templates: tmpl,
		router:    chi.NewRouter(),
		log:       opt.Logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleOptions)
		r.Get("/summary", s.handleSummary)
		r.Get("/view", s.handleView)
		r.Post("/events", s.handleEvent)
		r.Get("/rate", s.handleRate)
		r.Get("/department", s.handleDepartment)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.sessions.janitor(janitorCtx, s.sessions.ttl/2+time.Second, s.log)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", "addr", addr, "employees", s.reg.Table().Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
