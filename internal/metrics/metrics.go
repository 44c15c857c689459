// Package metrics registers the service's Prometheus collectors, exposed on
// /metrics by the router.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Turns counts processed conversation turns by dialogue step.
	Turns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_turns_total",
			Help: "Total number of conversation turns processed",
		},
		[]string{"step"},
	)

	// LeadsCompleted counts conversations that reached the terminal step.
	LeadsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leadbot_leads_completed_total",
			Help: "Total number of completed lead conversations",
		},
	)

	// NotifyFailures counts failed deliveries by sink.
	NotifyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_notify_failures_total",
			Help: "Total number of failed notification deliveries",
		},
		[]string{"sink"},
	)
)

func init() {
	prometheus.MustRegister(Turns, LeadsCompleted, NotifyFailures)
}
