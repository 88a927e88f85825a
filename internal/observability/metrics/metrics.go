package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	copyOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_cross_tenant_copies_total",
		Help: "Count of cross-tenant copy operations by entity type and result",
	}, []string{"entity_type", "result"})

	copyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_cross_tenant_copy_duration_seconds",
		Help:    "Duration of cross-tenant copy operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity_type", "result"})

	conflictChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_conflict_checks_total",
		Help: "Count of pre-copy conflict checks by entity type and outcome",
	}, []string{"entity_type", "outcome"})

	contentNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_content_notifications_total",
		Help: "Count of content-update notification publish attempts",
	}, []string{"result"})

	cacheRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_content_cache_refreshes_total",
		Help: "Count of content cache refreshes by source and result",
	}, []string{"source", "result"})

	updateSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_update_feed_subscribers",
		Help: "Number of connected live-update websocket clients",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveCopy records one cross-tenant copy attempt with its result label.
func ObserveCopy(entityType, result string, duration time.Duration) {
	copyOperations.WithLabelValues(entityType, result).Inc()
	copyDuration.WithLabelValues(entityType, result).Observe(duration.Seconds())
}

// ObserveConflictCheck increments the conflict check counter.
func ObserveConflictCheck(entityType string, conflict bool) {
	outcome := "no_conflict"
	if conflict {
		outcome = "conflict"
	}
	conflictChecks.WithLabelValues(entityType, outcome).Inc()
}

// ObserveNotification records a notification publish attempt.
func ObserveNotification(result string) {
	contentNotifications.WithLabelValues(result).Inc()
}

// ObserveCacheRefresh increments the cache refresh counter for the
// given trigger source and result.
func ObserveCacheRefresh(source, result string) {
	cacheRefreshes.WithLabelValues(source, result).Inc()
}

// IncrementSubscribers increments the update-feed subscriber gauge.
func IncrementSubscribers() {
	updateSubscribers.Inc()
}

// DecrementSubscribers decrements the update-feed subscriber gauge.
func DecrementSubscribers() {
	updateSubscribers.Dec()
}
