package fakeapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestsTotal counts handled requests.
// Labels:
//   - route: the matched route template, e.g. "/products/:id"
//   - method: HTTP method
//   - status: response status code
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "fakeapi",
		Name:      "requests_total",
		Help:      "Requests handled by the fake backend.",
	},
	[]string{"route", "method", "status"},
)

// RequestDuration measures handler latency per route.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "fakeapi",
		Name:      "request_duration_seconds",
		Help:      "Time spent handling a request.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)
