package pool

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "ringpool"
	metricsSubsystem = "pool"
)

type metrics struct {
	submitted prometheus.Counter
	rejected  prometheus.Counter
	completed prometheus.Counter
	panicked  prometheus.Counter
	busy      prometheus.Gauge
	duration  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "tasks_submitted_total",
			Help:      "Tasks accepted into the queue.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "tasks_rejected_total",
			Help:      "Submissions refused because the queue was full.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "tasks_completed_total",
			Help:      "Tasks that returned normally.",
		}),
		panicked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "tasks_panicked_total",
			Help:      "Tasks that panicked and were recovered.",
		}),
		busy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "busy_workers",
			Help:      "Workers currently executing a task.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "task_duration_seconds",
			Help:      "Task execution time.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.submitted, m.rejected, m.completed, m.panicked, m.busy, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("pool: registering metrics: %w", err)
		}
	}
	return m, nil
}
