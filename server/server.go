// Package server exposes a folio.Store over HTTP: a JSON API, CSV export,
// SVG charts and a websocket stream of snapshots.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/folio"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Config holds server configuration.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Currency       string // expected currency of new holdings, "" accepts any
	Log            zerolog.Logger
}

// Server is the HTTP server of a store.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	store    *folio.Store
	log      zerolog.Logger
	validate *validator.Validate
	currency string
	origins  []string
}

// New creates a new HTTP server for store.
func New(store *folio.Store, cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		store:    store,
		log:      cfg.Log.With().Str("component", "server").Logger(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		currency: cfg.Currency,
		origins:  cfg.AllowedOrigins,
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/portfolio", s.handlePortfolio)
		r.Route("/holdings", func(r chi.Router) {
			r.Get("/", s.handleListHoldings)
			r.Post("/", s.handleAddHolding)
			r.Get("/{id}", s.handleGetHolding)
			r.Put("/{id}", s.handleEditHolding)
			r.Delete("/{id}", s.handleDeleteHolding)
		})
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/charts/profit.svg", s.handleProfitChart)
		r.Get("/charts/distribution.svg", s.handleDistributionChart)
		r.Get("/stream", s.handleStream)
	})
}

// Start starts the HTTP server. It blocks until the server is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
