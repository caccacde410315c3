package results

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskstorefront_fetches_total",
		Help: "Settled result fetches by kind and outcome",
	}, []string{"accumulator", "kind", "outcome"})
	staleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskstorefront_stale_responses_total",
		Help: "Responses discarded because a newer reset started",
	}, []string{"accumulator", "kind"})
	fallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskstorefront_fallbacks_total",
		Help: "Resets that substituted the offline product list",
	}, []string{"accumulator"})
	ignoredLoadMore = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskstorefront_load_more_ignored_total",
		Help: "Load more calls that did not start a fetch",
	}, []string{"accumulator", "reason"})
)
