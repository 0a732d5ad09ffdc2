package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Invitations written by the selector, per survey version
	InvitationsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nps_invitations_created_total",
		Help: "Total number of survey invitations created",
	}, []string{"survey_type"})

	// Orders skipped by the selector, per exclusion rule
	OrdersExcluded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nps_orders_excluded_total",
		Help: "Total number of eligible orders excluded from a survey run",
	}, []string{"reason"})

	SelectorRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nps_selector_run_duration_seconds",
		Help:    "Duration of a full eligibility selector run",
		Buckets: prometheus.DefBuckets,
	})

	// Webhook submissions, per outcome (stored, duplicate, malformed)
	ResponsesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nps_responses_received_total",
		Help: "Total number of survey webhook submissions processed",
	}, []string{"survey_type", "outcome"})

	InvitationsFilled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nps_invitations_filled_total",
		Help: "Total number of invitations marked as filled",
	})
)

func Init() {
	prometheus.MustRegister(
		InvitationsCreated,
		OrdersExcluded,
		SelectorRunDuration,
		ResponsesReceived,
		InvitationsFilled,
	)
}
