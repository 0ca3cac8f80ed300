// Package metrics defines and registers the Prometheus collectors for the
// storefront core. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors register with the default registry on package init through
// promauto. Nothing is exported over the network; callers that want to expose
// them gather prometheus.DefaultGatherer themselves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Label values shared by the result-labelled counters.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Checkout metrics ──────────────────────────────────────────────────────────

// CheckoutsTotal counts checkout attempts.
// Label:
//   - result: "success", "empty_cart", "unauthenticated", "invalid_payment",
//     "product_missing" or "insufficient_stock"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts, by outcome.",
	},
	[]string{"result"},
)

// RevenueTotal accumulates the amount of every committed transaction.
var RevenueTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revenue_total",
		Help:      "Sum of all committed transaction amounts.",
	},
)

// CartAdditionsTotal counts addProductToCart calls.
// Label:
//   - result: "success" or the failure kind ("not_found", "invalid_quantity",
//     "insufficient_stock", "duplicate")
var CartAdditionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_additions_total",
		Help:      "Total number of add-to-cart attempts, by outcome.",
	},
	[]string{"result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// ── Persistence metrics ───────────────────────────────────────────────────────

// PersistenceSavesTotal counts full rewrites of a flat resource.
// Labels:
//   - resource: "users", "products" or "transactions"
//   - result: "success" or "failure"
var PersistenceSavesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_saves_total",
		Help:      "Total number of resource saves, by resource and outcome.",
	},
	[]string{"resource", "result"},
)
