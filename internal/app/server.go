package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/api/handlers"
	appMiddleware "github.com/lewis4x4/SouthernCoal-sub001/internal/api/middlewares"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/config"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/core/indexing"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/logging"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/metrics"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, db core.DbClient, indexer *indexing.Indexer) *Server {
	indexHandler := handlers.NewIndexHandler(indexer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Internal-Secret"},
		AllowCredentials: false,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.AccessGuard(cfg, db))
			protected.Post("/index", indexHandler.Index)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	logging.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
