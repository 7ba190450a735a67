// Package metrics provides Prometheus metrics for the SDK file cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "infsh_file_cache_hits_total",
			Help: "Number of file resolutions satisfied by the local cache",
		},
	)

	cacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "infsh_file_cache_misses_total",
			Help: "Number of file resolutions that required a fetch",
		},
	)

	downloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infsh_file_downloads_total",
			Help: "Number of remote file downloads",
		},
		[]string{"status"},
	)

	downloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "infsh_file_download_bytes_total",
			Help: "Total bytes downloaded from remote locators",
		},
	)

	downloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "infsh_file_download_duration_seconds",
			Help:    "Remote file download duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// CacheHit records a cache hit.
func CacheHit() {
	cacheHitsTotal.Inc()
}

// CacheMiss records a cache miss.
func CacheMiss() {
	cacheMissesTotal.Inc()
}

// DownloadOK records a successful download of n bytes.
func DownloadOK(n int64, duration time.Duration) {
	downloadsTotal.WithLabelValues("ok").Inc()
	downloadBytesTotal.Add(float64(n))
	downloadDuration.Observe(duration.Seconds())
}

// DownloadFailed records a failed download.
func DownloadFailed() {
	downloadsTotal.WithLabelValues("error").Inc()
}

// Handler returns the Prometheus metrics HTTP handler for applications
// that expose a metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
