package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Call counters per operation. The upload reconstructor's whole point is
// issuing as few remote calls as possible, so the counts are worth exporting.
var (
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drive_remote_calls_total",
		Help: "Remote store calls issued, by operation.",
	}, []string{"op"})

	callErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drive_remote_call_errors_total",
		Help: "Remote store calls that failed, by operation.",
	}, []string{"op"})
)

func observeCall(op string, err error) {
	callsTotal.WithLabelValues(op).Inc()
	if err != nil {
		callErrorsTotal.WithLabelValues(op).Inc()
	}
}
