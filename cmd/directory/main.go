package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/HannahMarsh/onion-relay/config"
	"github.com/HannahMarsh/onion-relay/internal/metrics"
	"github.com/HannahMarsh/onion-relay/internal/model/directory"
	"github.com/HannahMarsh/onion-relay/pkg/infrastructure/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yml")
	logLevel := flag.String("log-level", "", "Log level (defaults to log_level from the config)")

	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0]); err != nil {
			slog.Error("failed to write usage", "err", err)
		}
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *logLevel == "" {
		*logLevel = cfg.LogLevel
	}
	logger.SetUpLogrusAndSlog(*logLevel)

	// set GOMAXPROCS
	if _, err := maxprocs.Set(); err != nil {
		slog.Error("failed set max procs", "err", err)
		os.Exit(1)
	}

	slog.Info("⚡ init directory")

	dir := directory.New(nil)
	mux := http.NewServeMux()
	dir.Routes(mux)

	shutdownMetrics := func() {}
	if cfg.Metrics.Enabled {
		shutdownMetrics = metrics.ServeMetrics(cfg.Metrics.DirectoryPort, metrics.NODES_REGISTERED)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Directory.Port),
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start HTTP server", "err", err)
			os.Exit(1)
		}
	}()

	slog.Info("🌏 start directory...", "address", cfg.DirectoryURL())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	v := <-quit
	slog.Info("shutting down", "signal", v)
	shutdownMetrics()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced to shutdown", "err", err)
	}
}
