package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreLatency observes relational store operation latency by operation name.
var StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "memory_store",
	Name:      "record_store_latency_seconds",
	Help:      "Latency of relational record store operations.",
	Buckets:   prometheus.DefBuckets,
}, []string{"op"})

// VectorWriteFailures counts vector-leg failures absorbed by the write
// coordinator. The relational leg is unaffected by these.
var VectorWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "memory_store",
	Name:      "vector_write_failures_total",
	Help:      "Vector upsert/delete failures absorbed during dual writes.",
}, []string{"op"})

// ReconcileSynced counts records promoted to synced by reconciliation runs.
var ReconcileSynced = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "memory_store",
	Name:      "reconcile_synced_total",
	Help:      "Records promoted unsynced to synced by sync-vectors runs.",
})
