package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geocache/stc/internal/core/config"
	"github.com/geocache/stc/internal/core/health"
	"github.com/geocache/stc/internal/core/middleware"
	"github.com/geocache/stc/internal/dqm"
	"github.com/geocache/stc/internal/wcs"
)

// StatsReporter is the slice of dqm.Controller the /stats endpoint
// needs: queue depth and the registered worker set.
type StatsReporter interface {
	Stats() (pending, running int)
	Workers() []dqm.WorkerInfo
}

// WorkerRegistrar is the slice of dqm.Controller the /workers
// registration endpoint needs.
type WorkerRegistrar interface {
	AddWorker(conn *wcs.Conn)
}

// Run sets up the HTTP surface and serves until ctx is cancelled.
// It serves no query route: query requests reach the Cache Manager
// through whatever OGC-parsing layer sits outside this core. rr reports
// readiness; stats/registrar expose the DQM's queue depth and worker
// set.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, rr health.ReadinessReporter, stats StatsReporter, registrar WorkerRegistrar) error {
	r := chi.NewRouter()
	r.Use(middleware.Recover())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(rr))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/stats", handleStats(stats))
	r.Get("/workers", handleListWorkers(stats))
	r.Post("/workers", handleRegisterWorker(registrar, cfg.Worker.Timeout))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
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

func handleStats(stats StatsReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		pending, running := stats.Stats()
		out := struct {
			Pending int `json:"pending"`
			Running int `json:"running"`
			Workers int `json:"workers"`
		}{Pending: pending, Running: running, Workers: len(stats.Workers())}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func handleListWorkers(stats StatsReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats.Workers())
	}
}

type registerWorkerRequest struct {
	ID      string `json:"id"`
	NodeID  string `json:"node_id"`
	Timeout string `json:"timeout,omitempty"`
}

func handleRegisterWorker(registrar WorkerRegistrar, defaultTimeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerWorkerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.ID == "" || req.NodeID == "" {
			http.Error(w, "id and node_id are required", http.StatusBadRequest)
			return
		}

		timeout := defaultTimeout
		if req.Timeout != "" {
			if d, err := time.ParseDuration(req.Timeout); err == nil {
				timeout = d
			}
		}

		registrar.AddWorker(wcs.New(req.ID, req.NodeID, timeout))
		w.WriteHeader(http.StatusCreated)
	}
}
