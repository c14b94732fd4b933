// Package metrics declares the service's prometheus collectors in one place.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsInitialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insurewise_payments_initialized_total",
		Help: "Checkout sessions opened with the payment provider.",
	})
	PaymentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insurewise_payments_completed_total",
		Help: "Funding transactions settled successfully.",
	})
	PaymentsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insurewise_payments_failed_total",
		Help: "Funding transactions marked failed.",
	})
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insurewise_webhook_events_total",
		Help: "Webhook deliveries received, by event type.",
	}, []string{"event"})

	ClaimsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insurewise_claims_submitted_total",
		Help: "Claims filed.",
	})
	ClaimsDecided = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insurewise_claims_decided_total",
		Help: "Claim decisions, by outcome.",
	}, []string{"decision"})

	GroupPayouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insurewise_group_payouts_total",
		Help: "Rotating-fund cycle payouts made.",
	})
)
