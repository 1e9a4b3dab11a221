// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shawarma_bot"

var (
	UpdatesRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_routed_total",
		Help:      "Inbound updates by kind and matched route.",
	}, []string{"kind", "route"})

	HandlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "handler_errors_total",
		Help:      "Handler executions that returned an error or panicked.",
	}, []string{"route"})

	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Order status transition attempts by action and result.",
	}, []string{"action", "result"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders created by checkout.",
	})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_deliveries_total",
		Help:      "Fanout deliveries by message kind and outcome.",
	}, []string{"kind", "outcome"})

	PollingErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "polling_errors_total",
		Help:      "Errors reported by the Telegram long polling loop.",
	})
)
