package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tunegrab/internal/core"
)

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
}

type Metrics struct {
	QueriesTotal   *prometheus.CounterVec
	SearchesTotal  *prometheus.CounterVec
	FetchesTotal   *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	StaleRefsTotal prometheus.Counter
	CacheHitsTotal prometheus.Counter
	PendingRefs    prometheus.Gauge
}

// NewServer builds the HTTP sidecar: health and readiness probes, Prometheus
// metrics and, when non-nil, the chat webhook endpoint.
func NewServer(config *core.ServerConfig, webhook http.HandlerFunc, logger *zap.Logger) *Server {
	metrics := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunegrab_queries_total",
				Help: "Total number of user queries processed",
			},
			[]string{"mode"},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunegrab_searches_total",
				Help: "Total number of catalog searches",
			},
			[]string{"status"},
		),
		FetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunegrab_fetches_total",
				Help: "Total number of media fetches",
			},
			[]string{"kind", "status"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tunegrab_fetch_duration_seconds",
				Help:    "Time spent fetching media",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
			[]string{"kind"},
		),
		StaleRefsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tunegrab_stale_refs_total",
				Help: "Total number of expired selection tokens clicked",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tunegrab_cache_hits_total",
				Help: "Total number of deliveries served from the file ID cache",
			},
		),
		PendingRefs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tunegrab_pending_refs",
				Help: "Current number of unresolved selection tokens",
			},
		),
	}

	prometheus.MustRegister(
		metrics.QueriesTotal,
		metrics.SearchesTotal,
		metrics.FetchesTotal,
		metrics.FetchDuration,
		metrics.StaleRefsTotal,
		metrics.CacheHitsTotal,
		metrics.PendingRefs,
	)

	mux := setupRoutes(webhook)
	server := createHTTPServer(config, mux)

	return &Server{
		config:  config,
		logger:  logger,
		server:  server,
		metrics: metrics,
	}
}

func setupRoutes(webhook http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok","service":"tunegrab"}`)); err != nil {
			// Log error if needed, but don't fail the handler
		}
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ready","service":"tunegrab"}`)); err != nil {
			// Log error if needed, but don't fail the handler
		}
	})

	mux.Handle("/metrics", promhttp.Handler())

	if webhook != nil {
		mux.HandleFunc("/webhook", webhook)
	}

	mux.HandleFunc("/", homeHandler)

	return mux
}

func homeHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>TuneGrab</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1 class="header">🎶 TuneGrab</h1>
    <p>Telegram music and video download service</p>

    <h2>Endpoints</h2>
    <div class="endpoint">📊 <a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint">💚 <a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint">✅ <a href="/readyz">Ready</a> - Readiness check</div>

    <h2>Status</h2>
    <p>Service is running and ready to process download requests.</p>
</body>
</html>`)); err != nil {
		// Log error if needed, but don't fail the handler
	}
}

func createHTTPServer(config *core.ServerConfig, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}

func (s *Server) RecordQuery(mode string) {
	s.metrics.QueriesTotal.WithLabelValues(mode).Inc()
}

func (s *Server) RecordSearch(status string) {
	s.metrics.SearchesTotal.WithLabelValues(status).Inc()
}

func (s *Server) RecordFetch(kind, status string) {
	s.metrics.FetchesTotal.WithLabelValues(kind, status).Inc()
}

func (s *Server) RecordFetchDuration(kind string, seconds float64) {
	s.metrics.FetchDuration.WithLabelValues(kind).Observe(seconds)
}

func (s *Server) RecordStaleRef() {
	s.metrics.StaleRefsTotal.Inc()
}

func (s *Server) RecordCacheHit() {
	s.metrics.CacheHitsTotal.Inc()
}

func (s *Server) SetPendingRefs(n int) {
	s.metrics.PendingRefs.Set(float64(n))
}
