// Package http exposes the JSON API: entries, budgets, monthly summary,
// advice, and the demo auth endpoints.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// Server wires the chi router over the service layer.
type Server struct {
	httpServer *http.Server
	store      store.Store
	entries    *services.EntryService
	summaries  *services.SummaryService
	advisor    *services.AdviceService
	logger     *log.Logger
	limiter    *rateLimiter

	// currentUserID resolves the acting user for a request. The demo
	// deployment pins everything to the seeded user; a real auth layer
	// plugs in here without touching the handlers.
	currentUserID func(*http.Request) int64
}

// Deps carries the server's collaborators.
type Deps struct {
	Store     store.Store
	Entries   *services.EntryService
	Summaries *services.SummaryService
	Advisor   *services.AdviceService
	Logger    *log.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		store:     deps.Store,
		entries:   deps.Entries,
		summaries: deps.Summaries,
		advisor:   deps.Advisor,
		logger:    logger.WithComponent(log.ComponentHTTP),
		limiter:   newRateLimiter(),
		currentUserID: func(*http.Request) int64 {
			return 1 // seeded demo user
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.withRequestLogging)
	r.Use(securityHeaders)
	r.Use(s.withRateLimit)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", s.handleListEntries)
			r.Post("/", s.handleCreateEntry)
			r.Get("/{month}/{year}", s.handleListEntriesByMonth)
			r.Put("/{id}", s.handleUpdateEntry)
			r.Delete("/{id}", s.handleDeleteEntry)
		})
		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Post("/", s.handleCreateBudget)
			r.Get("/{month}/{year}", s.handleListBudgetsByMonth)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
		})
		r.Route("/advice", func(r chi.Router) {
			r.Get("/", s.handleListAdvice)
			r.Post("/", s.handleCreateAdvice)
		})
		r.Get("/summary", s.handleSummary)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Get("/user", s.handleCurrentUser)
		})
	})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving HTTP until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
