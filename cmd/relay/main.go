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
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
	"github.com/HannahMarsh/onion-relay/internal/metrics"
	"github.com/HannahMarsh/onion-relay/internal/model/relay"
	"github.com/HannahMarsh/onion-relay/internal/transport"
	"github.com/HannahMarsh/onion-relay/pkg/infrastructure/logger"
)

func main() {
	// Define command-line flags
	id := flag.Int("id", -1, "ID of the new relay (required)")
	configPath := flag.String("config", "", "Path to config.yml")
	logLevel := flag.String("log-level", "", "Log level (defaults to log_level from the config)")
	retry := flag.Duration("retry", 5*time.Second, "Delay between registration attempts")

	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0]); err != nil {
			slog.Error("failed to write usage", "err", err)
		}
		flag.PrintDefaults()
	}

	flag.Parse()

	// Check if the required flag is provided
	if *id <= 0 {
		_, _ = fmt.Fprintf(os.Stderr, "Error: the -id flag is required and must be positive\n")
		flag.Usage()
		os.Exit(2)
	}

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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("⚡ init relay", "id", *id)

	directoryClient := transport.NewHTTPDirectoryClient(cfg)
	forwarder := transport.NewHTTPForwarder(cfg)

	// The relay only starts serving once the directory holds its public key.
	var newRelay *relay.Relay
	for newRelay == nil {
		n, err := relay.NewRelay(ctx, *id, cfg, directoryClient, forwarder)
		if err == nil {
			newRelay = n
			break
		}
		if errors.Is(err, models.ErrValidation) {
			slog.Error("directory rejected relay", "err", err)
			os.Exit(1)
		}
		slog.Error("failed to create relay. Trying again.", "retry", *retry, "err", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(*retry):
		}
	}

	mux := http.NewServeMux()
	newRelay.Routes(mux)

	shutdownMetrics := func() {}
	if cfg.Metrics.Enabled {
		shutdownMetrics = metrics.ServeMetrics(cfg.RelayMetricsPort(*id), metrics.PROCESSING_TIME, metrics.ONION_COUNT)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.RelayPort(*id)),
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start HTTP server", "err", err)
			cancel()
		}
	}()

	slog.Info("🌏 start relay...", "id", *id, "address", newRelay.Address)

	<-ctx.Done()
	slog.Info("shutting down relay", "id", *id)
	shutdownMetrics()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced to shutdown", "err", err)
	}
}
