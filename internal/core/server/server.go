package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/location-geocoder/internal/core/config"
	"github.com/mohammed-shakir/location-geocoder/internal/core/health"
	middleware "github.com/mohammed-shakir/location-geocoder/internal/core/middleware"
	"github.com/mohammed-shakir/location-geocoder/internal/core/router"
	"github.com/mohammed-shakir/location-geocoder/pkg/geocoder"
)

// Handler builds the full route tree for g.
func Handler(logger *slog.Logger, g *geocoder.Geocoder) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(g))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	router.Mount(r, logger, g)
	return r
}

// Run serves Handler on cfg.Addr until ctx is done.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, g *geocoder.Geocoder) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           Handler(logger, g),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
