package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/cpusim/internal/config"
	"github.com/me/cpusim/internal/logging"
	"github.com/me/cpusim/internal/runner"
	"github.com/me/cpusim/internal/server"
	"github.com/me/cpusim/internal/store"
	"github.com/me/cpusim/internal/telemetry"
)

func main() {
	cfg := config.DefaultServerConfig()
	sim := config.DefaultSimulationConfig()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.IntVar(&cfg.MaxRuns, "max-runs", cfg.MaxRuns, "Runs kept in memory before the oldest is evicted (0 = unbounded)")
	flag.DurationVar(&cfg.ReplayInterval, "replay-interval", cfg.ReplayInterval, "Default tick cadence for SSE replay")
	flag.StringVar(&cfg.Telemetry.OTLPEndpoint, "otlp-endpoint", cfg.Telemetry.OTLPEndpoint, "OTLP gRPC endpoint for traces (or "+config.EnvOTLPEndpoint+" env)")
	flag.IntVar(&sim.MemoryCapacity, "memory-capacity", sim.MemoryCapacity, "Default frame count for scenarios that omit it")
	flag.IntVar(&sim.CompareWorkers, "compare-workers", sim.CompareWorkers, "Concurrent engine runs per comparison")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init telemetry: %v\n", err)
		os.Exit(1)
	}

	st := store.NewMemoryStore(cfg.MaxRuns, logger)
	defer st.Close()

	srv := server.New(cfg, st, runner.New(logger, sim), logger, server.WithSimulationDefaults(sim))

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "max_runs", cfg.MaxRuns)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown", "error", err)
	}
	logger.Info("server stopped")
}
