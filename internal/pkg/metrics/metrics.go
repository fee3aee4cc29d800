package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "car_rental"

// Metrics groups the counters the reservation engine exports on /metrics.
type Metrics struct {
	ReservationsCreated  prometheus.Counter
	ReservationsRejected *prometheus.CounterVec
	IdempotentReplays    *prometheus.CounterVec
	Payments             *prometheus.CounterVec
	SweepTransitions     *prometheus.CounterVec
	SweepRowErrors       prometheus.Counter
	IdempotencyPurged    prometheus.Counter
	RemindersQueued      prometheus.Counter
	EventsPublished      prometheus.Counter
	PublishErrors        prometheus.Counter
	TxRetries            *prometheus.CounterVec
}

// New registers every collector on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ReservationsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservations created in PENDING state.",
		}),
		ReservationsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_rejected_total",
			Help:      "Reservation requests rejected, by reason.",
		}, []string{"reason"}),
		IdempotentReplays: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Requests refused because their idempotency key was already used.",
		}, []string{"scope"}),
		Payments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payment results recorded, by outcome.",
		}, []string{"outcome"}),
		SweepTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_transitions_total",
			Help:      "Reservations moved by the lifecycle sweeper, by target status.",
		}, []string{"status"}),
		SweepRowErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_row_errors_total",
			Help:      "Rows the lifecycle sweeper skipped after an error.",
		}),
		IdempotencyPurged: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotency_keys_purged_total",
			Help:      "Expired idempotency records deleted.",
		}),
		RemindersQueued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_queued_total",
			Help:      "Pickup reminders queued for delivery.",
		}),
		EventsPublished: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_published_total",
			Help:      "Outbox events handed to the publisher.",
		}),
		PublishErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_publish_errors_total",
			Help:      "Failed outbox publish attempts.",
		}),
		TxRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_retries_total",
			Help:      "Transactions retried after a serialization failure or deadlock, by SQLSTATE.",
		}, []string{"sqlstate"}),
	}
}

// NewNop returns metrics bound to a private registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
