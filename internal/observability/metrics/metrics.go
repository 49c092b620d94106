package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

// Collectors are created eagerly so recording is safe before Init, which only
// registers them and starts the metrics server.
var (
	once          sync.Once
	metricsRouter *chi.Mux

	// client requests are the ones sending to other service
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	affiliateClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "affiliate_client_latency_seconds",
			Help:    "Histogram of affiliate client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	refreshFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_refresh_failures_total",
			Help: "Number of failed leaderboard refresh cycles by error kind",
		},
		[]string{"kind"},
	)

	leaderboardSizeGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "leaderboard_entries",
			Help: "Number of entries in the cached leaderboard snapshot",
		},
	)

	lastRefreshGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "leaderboard_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful leaderboard refresh",
		},
	)

	httpRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of served HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	keepAliveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keepalive_pings_total",
			Help: "Number of keep-alive pings by outcome",
		},
		[]string{"status"},
	)
)

// Init registers the collectors and serves them on metricsAddr.
func Init(metricsHost string, metricsPort int) {
	once.Do(func() {
		registerMetrics()
		initMetricsRouter(metricsHost, metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsHost string, metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf("%s:%d", metricsHost, metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Info().Msgf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

func registerMetrics() {
	prometheus.MustRegister(
		clientRequestDurationHistogram,
		affiliateClientLatency,
		pollerDurationHistogram,
		refreshFailureCounter,
		leaderboardSizeGauge,
		lastRefreshGauge,
		httpRequestCounter,
		keepAliveCounter,
	)
}

func RecordAffiliateClientLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	affiliateClientLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordRefreshFailure(kind string) {
	refreshFailureCounter.WithLabelValues(kind).Inc()
}

func RecordLeaderboardRefresh(entries int, at time.Time) {
	leaderboardSizeGauge.Set(float64(entries))
	lastRefreshGauge.Set(float64(at.Unix()))
}

func RecordHTTPRequest(route, method string, statusCode int) {
	httpRequestCounter.WithLabelValues(route, method, fmt.Sprintf("%d", statusCode)).Inc()
}

func RecordKeepAlive(failure bool) {
	status := Success
	if failure {
		status = Error
	}

	keepAliveCounter.WithLabelValues(status.String()).Inc()
}

// StartClientRequestDurationTimer starts a timer to measure outgoing client request duration.
func StartClientRequestDurationTimer(baseUrl, method, path string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		clientRequestDurationHistogram.WithLabelValues(
			baseUrl,
			method,
			path,
			fmt.Sprintf("%d", statusCode),
		).Observe(duration)
	}
}
