// Package metrics holds the client's Prometheus collectors. They register with
// the default registry on import; the devbackend and any embedding process can
// expose them with promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fridgekeeper"

// Mutation results.
const (
	ResultSuccess  = "success"
	ResultRollback = "rollback"
	ResultMoot     = "moot"
	ResultBusy     = "busy"
)

// Refresh results.
const (
	ResultOK    = "ok"
	ResultStale = "stale"
)

// MutationsTotal counts optimistic mutations by outcome.
// Label:
//   - result: success, rollback, moot or busy
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Optimistic mutations by outcome.",
	},
	[]string{"result"},
)

// RefreshesTotal counts refetch cycles that reached the network.
// Labels:
//   - collection: products, favorites, expiring
//   - result: ok, or stale when the previous snapshot was kept
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Refetch cycles by collection and outcome.",
	},
	[]string{"collection", "result"},
)

// RefreshesCoalesced counts refresh requests that joined an in-flight fetch.
var RefreshesCoalesced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_coalesced_total",
		Help:      "Refresh requests served by an already running fetch.",
	},
	[]string{"collection"},
)
