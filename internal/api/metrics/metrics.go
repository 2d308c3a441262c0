// Package metrics defines the custom Prometheus metrics of the places API.
// All metrics register with the default registry on package init through
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "places"

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountsCreatedTotal counts successful signups.
var AccountsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created through the API.",
	},
)

// TokensIssuedTotal counts token endpoint outcomes.
// Label:
//   - result: "issued" or "rejected"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of token requests, by result.",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts rejected bearer authentications.
// Label:
//   - reason: "missing" (no usable header) or "invalid"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected bearer authentications, by reason.",
	},
	[]string{"reason"},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// EntitiesCreatedTotal counts created entities.
// Label:
//   - kind: "country", "state" or "place"
var EntitiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entities_created_total",
		Help:      "Total number of entities created, by kind.",
	},
	[]string{"kind"},
)

// PlaceUpdatesTotal counts applied place updates.
// Label:
//   - mode: "full" (PUT) or "partial" (PATCH)
var PlaceUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "place_updates_total",
		Help:      "Total number of place updates, by mode.",
	},
	[]string{"mode"},
)
