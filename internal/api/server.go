// Package api serves the incentive views over HTTP as JSON.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/huangsam/incentive/core"
	"github.com/huangsam/incentive/internal/contract"
)

// ShutdownTimeout bounds how long active requests may run after a stop signal.
const ShutdownTimeout = 30 * time.Second

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.allowedOrigins(),
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(h.observe)

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", h.deps.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/reports", h.GetReport)
		r.Get("/leaderboard", h.GetLeaderboard)
		r.Get("/podium", h.GetPodium)
		r.Get("/search", h.Search)
		r.Get("/compare", h.Compare)
		r.Get("/bank", h.GetBankStatement)
		r.Get("/losses", h.GetLossSummary)
	})

	return r
}

// Serve listens on cfg.ListenAddr until ctx is cancelled, then drains
// active requests for up to ShutdownTimeout.
func Serve(ctx context.Context, cfg *contract.Config, deps core.Deps) error {
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      NewRouter(NewHandler(cfg, deps)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}
