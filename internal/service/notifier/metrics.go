package notifier

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the scheduler's counters. They are created unregistered so
// tests can build a Service without fighting over the default registry; main
// calls Register once.
type Metrics struct {
	PassesRun     prometheus.Counter
	PassesFailed  prometheus.Counter
	PassDuration  prometheus.Histogram
	Notifications *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		PassesRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_passes_total",
			Help:      "Total number of completed notification check passes",
		}),
		PassesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_passes_failed_total",
			Help:      "Total number of check passes aborted by a store error",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_pass_duration_seconds",
			Help:      "Time spent in one notification check pass",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by channel and result",
		}, []string{"channel", "result"}),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.PassesRun, m.PassesFailed, m.PassDuration, m.Notifications)
}
