// Package metrics defines the Prometheus metrics exported by projectfeed and
// serves them over HTTP.
//
// Pagination:
//   - projectfeed_pagination_advances_total (Counter): next-page requests raised by scrolling
//
// Feed:
//   - projectfeed_page_fetches_total{result} (Counter): page fetches by result (ok, error, stale)
//   - projectfeed_page_fetch_duration_seconds (Histogram): page fetch latency
//   - projectfeed_feed_items (Gauge): projects currently loaded in the feed
//
// Cache:
//   - projectfeed_cache_hits_total{layer} (Counter)
//   - projectfeed_cache_misses_total{layer} (Counter)
//   - projectfeed_cache_errors_total{layer,operation} (Counter)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the registerer all projectfeed metrics are attached to
var Registry = prometheus.DefaultRegisterer

var (
	PaginationAdvances = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projectfeed_pagination_advances_total",
			Help: "Total number of next-page requests raised by scrolling",
		},
	)

	PageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectfeed_page_fetches_total",
			Help: "Total number of page fetches by result",
		},
		[]string{"result"}, // ok, error, stale
	)

	PageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "projectfeed_page_fetch_duration_seconds",
			Help:    "Page fetch latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	FeedItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "projectfeed_feed_items",
			Help: "Number of projects currently loaded in the feed",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectfeed_cache_hits_total",
			Help: "Total number of page cache hits",
		},
		[]string{"layer"}, // memory, redis
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectfeed_cache_misses_total",
			Help: "Total number of page cache misses",
		},
		[]string{"layer"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectfeed_cache_errors_total",
			Help: "Total number of page cache errors",
		},
		[]string{"layer", "operation"}, // get, set
	)
)
