package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	quizzesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizzes_generated_total",
			Help: "Total number of quizzes generated",
		},
		[]string{"from", "to"},
	)

	quizScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_score_percent",
			Help:    "Score of graded quizzes",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	quizAnswersSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_answers_skipped_total",
			Help: "Answers whose vocabulary entry could not be found during grading",
		},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"key", "cache_hit"},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"action"},
	)
)

// MetricsMiddleware collects Prometheus metrics for every request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		// route pattern, so /vocabs/:id is one series
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

func RecordQuizGenerated(from, to string) {
	quizzesGeneratedTotal.WithLabelValues(from, to).Inc()
}

func RecordQuizGraded(score, skipped int) {
	quizScore.Observe(float64(score))
	if skipped > 0 {
		quizAnswersSkippedTotal.Add(float64(skipped))
	}
}

func RecordCacheLookup(key string, hit bool) {
	cacheLookupsTotal.WithLabelValues(key, strconv.FormatBool(hit)).Inc()
}

func recordRateLimited(action string) {
	rateLimitedTotal.WithLabelValues(action).Inc()
}
