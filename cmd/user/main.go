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
	"github.com/HannahMarsh/onion-relay/internal/model/user"
	"github.com/HannahMarsh/onion-relay/internal/onion"
	"github.com/HannahMarsh/onion-relay/internal/transport"
	"github.com/HannahMarsh/onion-relay/pkg/infrastructure/logger"
)

func main() {
	id := flag.Int("id", -1, "ID of the new user (required)")
	configPath := flag.String("config", "", "Path to config.yml")
	logLevel := flag.String("log-level", "", "Log level (defaults to log_level from the config)")
	seed := flag.Int64("seed", 0, "Seed for circuit selection (0 seeds from the clock)")

	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0]); err != nil {
			slog.Error("failed to write usage", "err", err)
		}
		flag.PrintDefaults()
	}

	flag.Parse()

	if *id < 0 {
		_, _ = fmt.Fprintf(os.Stderr, "Error: the -id flag is required\n")
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

	slog.Info("⚡ init user", "id", *id)

	var selector *onion.Selector
	if *seed != 0 {
		selector = onion.NewSelector(*seed)
	}
	newUser := user.NewUser(*id, cfg, transport.NewHTTPDirectoryClient(cfg), transport.NewHTTPForwarder(cfg), selector)

	mux := http.NewServeMux()
	newUser.Routes(mux)

	shutdownMetrics := func() {}
	if cfg.Metrics.Enabled {
		shutdownMetrics = metrics.ServeMetrics(cfg.UserMetricsPort(*id), metrics.MSG_SENT, metrics.MSG_RECEIVED)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.UserPort(*id)),
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start HTTP server", "err", err)
			cancel()
		}
	}()

	slog.Info("🌏 start user...", "id", *id, "address", newUser.Address)

	<-ctx.Done()
	slog.Info("shutting down user", "id", *id)
	shutdownMetrics()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced to shutdown", "err", err)
	}
}
