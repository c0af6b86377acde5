package metrics

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Fee calculation metrics
	FeeCalculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tollfee_fee_calculations_total",
			Help: "Total daily fee calculations",
		},
		[]string{"category", "result"},
	)

	FeesChargedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tollfee_fees_charged_total",
			Help: "Sum of daily fees computed for recorded passages",
		},
		[]string{"category"},
	)

	DailyCapReached = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tollfee_daily_cap_reached_total",
			Help: "Daily charges that hit the daily cap",
		},
	)

	// Ledger metrics
	PassagesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tollfee_passages_recorded_total",
			Help: "Total toll point passages recorded",
		},
		[]string{"category"},
	)

	PassagesPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tollfee_passages_pruned_total",
			Help: "Passages deleted by the retention scheduler",
		},
	)

	// Holiday cache metrics
	HolidayCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tollfee_holiday_cache_hits_total",
			Help: "Holiday calendar cache hits",
		},
	)

	HolidayCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tollfee_holiday_cache_misses_total",
			Help: "Holiday calendar cache misses",
		},
	)

	// HTTP API metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tollfee_http_requests_total",
			Help: "Total HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tollfee_http_request_duration_seconds",
			Help:    "HTTP API request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"route"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(
		FeeCalculationsTotal,
		FeesChargedTotal,
		DailyCapReached,
		PassagesRecorded,
		PassagesPruned,
		HolidayCacheHits,
		HolidayCacheMisses,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// Server is the metrics HTTP server
type Server struct {
	server   *http.Server
	logger   zerolog.Logger
	listener net.Listener // Optional pre-created listener (for systemd socket activation)
}

// NewServer creates a new metrics server
func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// SetListener sets a pre-created listener for systemd socket activation
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Handler returns the HTTP handler serving /metrics and /health
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the metrics server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting metrics server")
	go func() {
		var err error
		if s.listener != nil {
			s.logger.Debug().Msg("Using systemd socket-activated metrics listener")
			err = s.server.Serve(s.listener)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Stop stops the metrics server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
