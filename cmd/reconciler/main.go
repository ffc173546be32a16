package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/db"
	"github.com/coursehub/coursehub/internal/observability"
	"github.com/coursehub/coursehub/internal/reconcile"
	"github.com/coursehub/coursehub/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// expose sweep metrics on a side port
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port+1),
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", "err", err)
		}
	}()

	store := postgres.NewReconcileRepo(pool, prom)

	r := reconcile.New(reconcile.Config{
		Interval: cfg.ReconcileInterval,
	}, store, prom, log)

	log.Info("reconciler started", "interval", cfg.ReconcileInterval)

	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("reconciler stopped", "err", err)
	}

	shutdownCtx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info("reconciler shutdown complete")
}
