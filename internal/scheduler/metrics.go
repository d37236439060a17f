package scheduler

import "github.com/prometheus/client_golang/prometheus"

var (
	firingsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progress_engine",
		Subsystem: "scheduler",
		Name:      "firings_total",
		Help:      "Number of scheduled jobs fired successfully, labeled by job kind.",
	}, []string{"kind"})

	failedFiringsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progress_engine",
		Subsystem: "scheduler",
		Name:      "firings_failed_total",
		Help:      "Number of scheduled firings whose delivery failed, labeled by job kind.",
	}, []string{"kind"})

	activeJobsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "progress_engine",
		Subsystem: "scheduler",
		Name:      "jobs_active",
		Help:      "Number of recurring jobs currently registered.",
	})

	timezoneFallbackCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "progress_engine",
		Subsystem: "scheduler",
		Name:      "timezone_fallbacks_total",
		Help:      "Number of registrations that fell back to the default timezone.",
	})
)

func init() {
	prometheus.MustRegister(firingsCounter, failedFiringsCounter, activeJobsGauge, timezoneFallbackCounter)
}
