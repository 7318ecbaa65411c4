package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/mfcastro/riskdash/internal/database"
	"github.com/mfcastro/riskdash/internal/modules/history"
	"github.com/mfcastro/riskdash/internal/modules/indicators"
	"github.com/mfcastro/riskdash/internal/modules/planning"
	"github.com/mfcastro/riskdash/internal/modules/portfolio"
)

// Config holds server configuration
type Config struct {
	Port    int
	DevMode bool
	Log     zerolog.Logger
	DB      *database.DB

	Portfolio  *portfolio.Handler
	Planning   *planning.Handler
	Indicators *indicators.Handler
	History    *history.Handler
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	db     *database.DB

	portfolio  *portfolio.Handler
	planning   *planning.Handler
	indicators *indicators.Handler
	history    *history.Handler
	startedAt  time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "server").Logger(),
		db:         cfg.DB,
		portfolio:  cfg.Portfolio,
		planning:   cfg.Planning,
		indicators: cfg.Indicators,
		history:    cfg.History,
		startedAt:  time.Now(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// Large frontier/simulation requests still finish well inside this
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Post("/analyze", s.portfolio.HandleAnalyze)
			r.Post("/frontier", s.portfolio.HandleFrontier)
		})

		r.Route("/planning", func(r chi.Router) {
			r.Post("/simulate", s.planning.HandleSimulate)
		})

		r.Route("/risk", func(r chi.Router) {
			r.Get("/indicators", s.indicators.HandleIndicators)
			r.Get("/rolling-volatility", s.indicators.HandleRollingVolatility)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.history.HandleTracked)
			r.Post("/sync", s.history.HandleSync)
			r.Get("/{symbol}", s.history.HandleCloses)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
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
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
