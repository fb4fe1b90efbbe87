package odk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mega2_client",
			Name:      "cache_hits_total",
			Help:      "Fetches served from a live cache entry.",
		},
		[]string{"resource"},
	)

	cacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mega2_client",
			Name:      "cache_misses_total",
			Help:      "Fetches that found no live cache entry.",
		},
		[]string{"resource"},
	)

	forceRefreshTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mega2_client",
			Name:      "cache_force_refresh_total",
			Help:      "Submission fetches that bypassed the cache on request.",
		},
	)

	authFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mega2_client",
			Name:      "auth_failures_total",
			Help:      "Failed session creation attempts.",
		},
	)
)
