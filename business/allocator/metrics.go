package allocator

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AllocationRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocator_runs_total",
			Help: "Count of allocation runs by pool, status, and trigger.",
		},
		[]string{"pool", "status", "triggered_by"},
	)

	SnapshotsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocator_snapshots_skipped_total",
			Help: "Count of snapshots rejected during allocation, by pool.",
		},
		[]string{"pool"},
	)

	UnallocatedBudgetGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "allocator_unallocated_budget",
			Help: "Budget the rate caps refused to place in the latest run, by pool.",
		},
		[]string{"pool"},
	)
)

func init() {
	prometheus.MustRegister(
		AllocationRunsTotal,
		SnapshotsSkippedTotal,
		UnallocatedBudgetGauge,
	)
}
