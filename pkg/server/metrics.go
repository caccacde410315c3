package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskstorefront_active_sessions",
		Help: "Browse sessions currently held in memory",
	})
	expiredSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskstorefront_expired_sessions_total",
		Help: "Browse sessions removed after being idle",
	})
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskstorefront_session_operations_total",
		Help: "Browse session operations by name",
	}, []string{"operation"})
)
