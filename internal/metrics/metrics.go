// Package metrics 暴露服务的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackqr",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trackqr",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// Scans 扫码结果: found / not_found / error
	Scans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackqr",
		Name:      "scans_total",
		Help:      "QR scans by outcome.",
	}, []string{"result"})

	CodeCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackqr",
		Name:      "qr_code_collisions_total",
		Help:      "Generated QR codes rejected by the unique constraint.",
	})

	ActivityDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackqr",
		Name:      "activity_dropped_total",
		Help:      "Activity log entries dropped because the queue was full.",
	})

	ActivityFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trackqr",
		Name:      "activity_write_failures_total",
		Help:      "Activity log entries that failed to persist.",
	})

	SessionCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackqr",
		Name:      "session_cache_total",
		Help:      "Session cache lookups by outcome.",
	}, []string{"result"})
)
