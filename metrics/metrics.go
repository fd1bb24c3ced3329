// Package metrics exposes the Prometheus counters the pricing and
// settlement paths increment. Registration happens once at init; callers
// mount promhttp wherever their serving surface lives.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	quotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexcore_quotes_total",
			Help: "Total number of quote requests by result",
		},
		[]string{"result"},
	)

	routesNotFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dexcore_routes_not_found_total",
			Help: "Total number of route lookups that found no route",
		},
	)

	settlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexcore_settlements_total",
			Help: "Total number of reconciled transaction results by classification",
		},
		[]string{"classification"},
	)
)

func init() {
	prometheus.MustRegister(quotesTotal)
	prometheus.MustRegister(routesNotFoundTotal)
	prometheus.MustRegister(settlementsTotal)
}

// QuoteComputed records a quote attempt outcome, e.g. "ok" or "no_route".
func QuoteComputed(result string) {
	quotesTotal.WithLabelValues(result).Inc()
}

// RouteNotFound records a failed route lookup.
func RouteNotFound() {
	routesNotFoundTotal.Inc()
}

// SettlementReconciled records one reconciled transaction result.
func SettlementReconciled(classification string) {
	settlementsTotal.WithLabelValues(classification).Inc()
}
