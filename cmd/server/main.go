package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"scoreapi/internal/method"
	"scoreapi/internal/platform/config"
	"scoreapi/internal/platform/httpserver"
	"scoreapi/internal/platform/logger"
	"scoreapi/internal/platform/metrics"
	"scoreapi/internal/storage"
	httptransport "scoreapi/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	m := metrics.New(prometheus.DefaultRegisterer)

	rdb := storage.NewRedisClient(cfg.Redis)
	store := storage.New(rdb, storage.Options{
		Attempts: cfg.Store.RetryAttempts,
		Backoff:  cfg.Store.RetryBackoff,
	}, log, m)
	defer store.Close()

	// The service starts even when the store is down: score requests degrade
	// to the local mirror and interest lookups fail per request.
	if err := store.Health(context.Background()); err != nil {
		log.Warn("store unreachable at startup, running degraded", "addr", cfg.Redis.Addr, "error", err)
	}

	dispatcher := method.NewDispatcher(store, method.Salts{
		Shared: cfg.Auth.Salt,
		Admin:  cfg.Auth.AdminSalt,
	}, log, m)

	handler := httptransport.New(dispatcher, log, m)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := httpserver.New(cfg.MetricsAddr, metricsMux)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting scoreapi", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting metrics listener", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
