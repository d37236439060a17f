package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventAppendedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "progress_engine",
		Subsystem: "persistence",
		Name:      "last_event_appended_timestamp_seconds",
		Help:      "Unix timestamp of the most recent event appended to the log.",
	})
	reportBuiltGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "progress_engine",
		Subsystem: "reports",
		Name:      "last_report_built_timestamp_seconds",
		Help:      "Unix timestamp of the most recent weekly report built.",
	})
)

func init() {
	prometheus.MustRegister(eventAppendedGauge, reportBuiltGauge)
}

// RecordEventAppended updates the append watermark gauge.
func RecordEventAppended(ts time.Time) {
	if ts.IsZero() {
		return
	}
	eventAppendedGauge.Set(float64(ts.Unix()))
}

// RecordReportBuilt updates the report watermark gauge.
func RecordReportBuilt(ts time.Time) {
	if ts.IsZero() {
		return
	}
	reportBuiltGauge.Set(float64(ts.Unix()))
}
