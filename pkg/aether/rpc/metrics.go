package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK             = "ok"
	outcomeRPCError       = "rpc_error"
	outcomeTransportError = "transport_error"
)

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// newClientMetrics builds the request metrics. With a nil registerer the
// metrics are created but never registered, so instrumentation stays
// optional without nil checks at call sites.
func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	factory := promauto.With(reg)

	return &clientMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aether_rpc_requests_total",
			Help: "JSON-RPC requests by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aether_rpc_request_duration_seconds",
			Help:    "JSON-RPC request latency by method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}
