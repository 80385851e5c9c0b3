package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/palacegate/bellsim/sim"
)

// Config holds everything the HTTP server needs.
type Config struct {
	Addr      string
	Bell      sim.BellConfig
	Simulator *sim.Simulator
	Seeds     SeedFunc
	Log       *logrus.Entry
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     *logrus.Entry
	handler *Handler
}

// New builds the Bell circuit from cfg.Bell and wires the routes.
func New(cfg Config) (*Server, error) {
	circuit, err := sim.BuildBellCircuitWith(cfg.Bell)
	if err != nil {
		return nil, err
	}
	log := cfg.Log
	if log == nil {
		log = logrus.WithField("component", "server")
	}
	simulator := cfg.Simulator
	if simulator == nil {
		simulator = sim.NewSimulator(sim.SimulatorConfig{})
	}

	s := &Server{
		router:  chi.NewRouter(),
		log:     log,
		handler: NewHandler(circuit, cfg.Bell, simulator, cfg.Seeds, log),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Router returns the root handler, for tests and embedding.
func (s *Server) Router() http.Handler { return s.router }

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handler.HandleHealth)
	s.router.Route("/api", func(r chi.Router) {
		s.handler.RegisterRoutes(r)
	})
}

// Start listens until the server is shut down. It returns
// http.ErrServerClosed after a graceful Shutdown.
func (s *Server) Start() error {
	s.log.WithField("addr", s.server.Addr).Info("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}
