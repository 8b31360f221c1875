package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PROCESSING_TIME  = "onionProcessingTime"
	ONION_COUNT      = "onionCounter"
	MSG_SENT         = "messagesSent"
	MSG_RECEIVED     = "messagesReceived"
	NODES_REGISTERED = "nodesRegistered"
)

// Outcomes recorded under ONION_COUNT.
const (
	OutcomeForwarded      = "forwarded"
	OutcomeForwardFailed  = "forward_failed"
	OutcomeDecryptFailed  = "decrypt_failed"
	OutcomeMalformedLayer = "malformed_layer"
)

var collectors = map[string]prometheus.Collector{
	PROCESSING_TIME: prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    PROCESSING_TIME,
		Help:    "Time a relay spends peeling and forwarding one envelope, in seconds",
		Buckets: prometheus.DefBuckets,
	}),
	ONION_COUNT: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ONION_COUNT,
			Help: "Number of envelopes handled by a relay, by outcome",
		},
		[]string{"outcome"},
	),
	MSG_SENT: prometheus.NewCounter(prometheus.CounterOpts{
		Name: MSG_SENT,
		Help: "Number of messages a user dispatched to an entry relay",
	}),
	MSG_RECEIVED: prometheus.NewCounter(prometheus.CounterOpts{
		Name: MSG_RECEIVED,
		Help: "Number of messages delivered to a user",
	}),
	NODES_REGISTERED: prometheus.NewCounter(prometheus.CounterOpts{
		Name: NODES_REGISTERED,
		Help: "Number of relay registrations accepted by the directory",
	}),
}

func Observe(id string, value float64) {
	if collector, ok := collectors[id].(prometheus.Observer); ok {
		collector.Observe(value)
	} else {
		slog.Error("Failed to find observer", "id", id)
	}
}

func Inc(id string, labels ...any) {
	if len(labels) == 0 {
		if collector, ok := collectors[id].(prometheus.Counter); ok {
			collector.Inc()
		} else {
			slog.Error("Failed to find counter", "id", id)
		}
		return
	}
	if collector, ok := collectors[id].(*prometheus.CounterVec); ok {
		values := make([]string, len(labels))
		for i, label := range labels {
			values[i] = fmt.Sprintf("%v", label)
		}
		collector.WithLabelValues(values...).Inc()
	} else {
		slog.Error("Failed to find counterVec", "id", id)
	}
}

// Collector exposes a collector by id, mostly for tests.
func Collector(id string) prometheus.Collector {
	return collectors[id]
}

// ServeMetrics registers the given collectors and serves them at /metrics on prometheusPort.
func ServeMetrics(prometheusPort int, collectorIds ...string) (shutdown func()) {
	registry := prometheus.NewRegistry()
	for _, id := range collectorIds {
		if collector, ok := collectors[id]; ok {
			registry.MustRegister(collector)
		} else {
			slog.Error("Failed to find collector", "id", id)
		}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", prometheusPort),
		Handler: mux,
	}

	go func(server *http.Server) {
		slog.Info("Starting Prometheus server", "Addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start Prometheus server", "err", err)
		}
	}(server)

	return func() {
		slog.Info("Shutting down Prometheus server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Prometheus server forced to shutdown", "err", err)
		} else {
			slog.Info("Prometheus server gracefully stopped")
		}
	}
}
