package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the allocation run HTTP handler
	AllocationRunLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocation_run_latency_seconds",
		Help:    "Latency of the allocation run handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of allocation previews served
	AllocationPreviewRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_preview_requests_total",
		Help: "Total number of allocation preview requests",
	})
)

func Init() {
	prometheus.MustRegister(
		AllocationRunLatency,
		AllocationPreviewRequests,
	)
}
