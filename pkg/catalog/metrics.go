package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskstorefront_catalog_requests_total",
		Help: "Requests sent to the product search API by route and status",
	}, []string{"route", "status"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slaskstorefront_catalog_request_seconds",
		Help:    "Latency of product search API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskstorefront_catalog_cache_hits_total",
		Help: "Search responses served from the cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskstorefront_catalog_cache_misses_total",
		Help: "Search responses not found in the cache",
	})
)
