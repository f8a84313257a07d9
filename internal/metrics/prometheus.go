package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal compte les requêtes HTTP
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration mesure la durée des requêtes HTTP
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// CartMutations compte les écritures du sac par opération
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sack_cart_mutations_total",
			Help: "Total number of cart mutations",
		},
		[]string{"operation"},
	)

	// OrdersCreated compte les commandes passées
	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sack_orders_created_total",
			Help: "Total number of orders placed",
		},
	)

	// OrderTransitions compte les changements de statut, y compris les refus
	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sack_order_transitions_total",
			Help: "Order status transitions by target status and outcome",
		},
		[]string{"to", "outcome"},
	)

	// MalformedState compte les valeurs persistées illisibles remises à zéro
	MalformedState = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sack_malformed_state_total",
			Help: "Persisted values that failed to decode and were reset",
		},
		[]string{"key"},
	)
)
