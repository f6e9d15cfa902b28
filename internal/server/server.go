// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server exposes the metrics of a local run over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/go-pyleus/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// NewRouter serves the metrics of gatherer on /metrics and a liveness
// probe on /healthz.
func NewRouter(gatherer prometheus.Gatherer, log *logger.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(withLogging(log))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return router
}

func withLogging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Debug().
				Str("uri", r.RequestURI).
				Str("method", r.Method).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Int("size", ww.BytesWritten()).
				Send()
		})
	}
}

// MetricsServer is a [workers.Worker] serving the router of [NewRouter].
type MetricsServer struct {
	server *http.Server
	log    *logger.Logger
}

// NewMetricsServer returns a server listening on addr. A nil log discards
// output.
func NewMetricsServer(addr string, gatherer prometheus.Gatherer, log *logger.Logger) *MetricsServer {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("metrics-server")

	return &MetricsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(gatherer, log),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		log: log,
	}
}

// Run serves until ctx is done, then shuts the server down.
func (s *MetricsServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.server.Addr).Msg("serving metrics")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	}
}
