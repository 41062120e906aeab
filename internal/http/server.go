package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/backup"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/cache"
	applog "github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/log"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/middleware/ratelimit"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/middleware/security"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/middleware/trace"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/reports"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/services"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/session"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store"
)

// Options carries the dependencies NewServer wires into the router.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Store is the persistence backend every handler reads and writes.
	Store store.Store

	// Sessions is the in-memory session table backing the auth cookie.
	Sessions *session.Manager

	// Transactions wraps transaction writes that carry side effects
	// (budget alerts, mirror events).
	Transactions *services.TransactionService

	// Backups snapshots and restores the five user collections.
	Backups *backup.Service

	// AllowedOrigins configures CORS for the browser dashboard.
	AllowedOrigins []string

	// RateLimit configures the per-client limiter on mutating requests.
	RateLimit ratelimit.Config

	// Logger is installed on every request context. Defaults to a fresh
	// http-component logger when nil.
	Logger *applog.Logger
}

// Server is the API server. It owns the middleware stack, the per-user
// report caches and the session-backed auth layer.
type Server struct {
	http.Server

	store        store.Store
	sessions     *session.Manager
	transactions *services.TransactionService
	backups      *backup.Service

	logger   *applog.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	headers  *security.HeadersMiddleware
	tracer   *trace.Middleware

	// Per-user aggregation caches, invalidated on any transaction write.
	insightsCache *cache.LRUCache[int64, []reports.CategorySummary]
	reportCache   *cache.LRUCache[int64, reports.SpendingReport]

	shutdownOnce sync.Once
}

// NewServer configures middleware and routes, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(slog.LevelInfo, applog.ComponentHTTP)
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		store:         opts.Store,
		sessions:      opts.Sessions,
		transactions:  opts.Transactions,
		backups:       opts.Backups,
		logger:        opts.Logger,
		limiter:       ratelimit.NewLimiter(opts.RateLimit),
		detector:      security.NewDetector(),
		headers:       security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		insightsCache: cache.NewLRUCache[int64, []reports.CategorySummary](256, 5*time.Minute),
		reportCache:   cache.NewLRUCache[int64, reports.SpendingReport](256, 5*time.Minute),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.headers.Middleware)
	r.Use(s.tracer.Middleware)
	r.Use(applog.Middleware(s.logger))
	r.Use(s.logSuspicious)
	r.Use(s.rateLimitMutations)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.withAuth)

			r.Get("/me", s.handleMe)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", s.handleListTransactions)
				r.Post("/", s.handleCreateTransaction)
				r.Get("/{id}", s.handleGetTransaction)
				r.Patch("/{id}", s.handleUpdateTransaction)
				r.Delete("/{id}", s.handleDeleteTransaction)
			})
			r.Route("/incomes", func(r chi.Router) {
				r.Get("/", s.handleListIncomes)
				r.Post("/", s.handleCreateIncome)
				r.Get("/{id}", s.handleGetIncome)
				r.Patch("/{id}", s.handleUpdateIncome)
				r.Delete("/{id}", s.handleDeleteIncome)
			})
			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", s.handleListBudgets)
				r.Post("/", s.handleCreateBudget)
				r.Get("/{id}", s.handleGetBudget)
				r.Patch("/{id}", s.handleUpdateBudget)
				r.Delete("/{id}", s.handleDeleteBudget)
			})
			r.Route("/goals", func(r chi.Router) {
				r.Get("/", s.handleListGoals)
				r.Post("/", s.handleCreateGoal)
				r.Get("/{id}", s.handleGetGoal)
				r.Patch("/{id}", s.handleUpdateGoal)
				r.Delete("/{id}", s.handleDeleteGoal)
			})
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleListCategories)
				r.Post("/", s.handleCreateCategory)
				r.Get("/{id}", s.handleGetCategory)
				r.Patch("/{id}", s.handleUpdateCategory)
				r.Delete("/{id}", s.handleDeleteCategory)
			})
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotifications)
				r.Post("/", s.handleCreateNotification)
				r.Get("/{id}", s.handleGetNotification)
				r.Patch("/{id}", s.handleUpdateNotification)
				r.Delete("/{id}", s.handleDeleteNotification)
			})

			r.Get("/insights/spending", s.handleSpendingByCategory)
			r.Route("/reports", func(r chi.Router) {
				r.Get("/spending", s.handleSpendingReport)
				r.Get("/download", s.handleDownloadCSV)
				r.Get("/summary", s.handleSummary)
				r.Get("/statement", s.handleStatement)
			})

			r.Post("/backup", s.handleBackup)
			r.Post("/restore", s.handleRestore)
		})
	})

	s.Handler = r
	return s
}

// Cleaners exposes the server's expiring caches so the startup code can
// register them with the shared cache manager for periodic sweeping.
func (s *Server) Cleaners() []cache.Cleaner {
	return []cache.Cleaner{s.insightsCache, s.reportCache}
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateReportCaches drops the user's cached aggregations after any
// write that changes what the reports would say.
func (s *Server) invalidateReportCaches(userID int64) {
	s.insightsCache.Delete(userID)
	s.reportCache.Delete(userID)
}

// pinger is implemented by stores with a connection worth probing. The
// memory store is always ready and does not implement it.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			NewResponse().
				Status(http.StatusServiceUnavailable).
				JSON(map[string]string{"status": "not_ready", "store": err.Error()}).
				Write(w)
			return
		}
	}
	NewResponse().JSON(map[string]string{"status": "ready"}).Write(w)
}
