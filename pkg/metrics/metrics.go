package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmgraph_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmgraph_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	FeedEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmgraph_feed_events_total",
			Help: "Feed events committed, by type and operation",
		},
		[]string{"event_type", "operation"},
	)

	FeedPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmgraph_feed_published_total",
			Help: "Feed events handed to the stream publisher, by result",
		},
		[]string{"result"}, // "ok", "error", "dropped"
	)

	FeedPublishLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmgraph_feed_publish_latency_seconds",
			Help:    "Time from enqueue to stream write",
			Buckets: prometheus.DefBuckets,
		},
	)

	FeedQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filmgraph_feed_queue_length",
			Help: "Pending events in the publisher queue",
		},
	)
)

// RecordHTTPRequest 记录一次 HTTP 请求
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordFeedEvent(eventType, operation string) {
	FeedEventsTotal.WithLabelValues(eventType, operation).Inc()
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
