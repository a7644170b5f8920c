package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"timesheet-report/internal/domain"
)

var (
	runsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timesheet_report",
		Name:      "runs_total",
		Help:      "Report runs by output mode and result.",
	}, []string{"mode", "result"})

	entriesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "timesheet_report",
		Name:      "last_fetched_entries",
		Help:      "Number of time entries returned by the most recent fetch.",
	})

	employeesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "timesheet_report",
		Name:      "last_aggregated_employees",
		Help:      "Number of employees in the most recent aggregation.",
	})
)

func init() {
	prometheus.MustRegister(runsCounter, entriesGauge, employeesGauge)
}

// RecordRun counts one finished run.
func RecordRun(mode domain.ReportMode, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	runsCounter.WithLabelValues(string(mode), result).Inc()
}

// RecordEntries stores the size of the last fetch.
func RecordEntries(n int) {
	entriesGauge.Set(float64(n))
}

// RecordEmployees stores the size of the last aggregation.
func RecordEmployees(n int) {
	employeesGauge.Set(float64(n))
}
