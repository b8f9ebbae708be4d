// Package metrics exposes the assistant's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	IntentMatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genie_intent_matches_total",
			Help: "Inputs classified per catalog intent.",
		},
		[]string{"intent"},
	)
	Replies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genie_replies_total",
			Help: "Assistant replies appended per language.",
		},
		[]string{"language"},
	)
	Navigations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genie_navigations_total",
			Help: "Deferred screen navigations fired per target screen.",
		},
		[]string{"screen"},
	)
	InboundRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "genie_inbound_rate_limited_total",
			Help: "WebSocket frames dropped by the per-session rate limiter.",
		},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "genie_active_sessions",
			Help: "Conversations currently held by the session manager.",
		},
	)
)

func init() {
	prometheus.MustRegister(IntentMatches)
	prometheus.MustRegister(Replies)
	prometheus.MustRegister(Navigations)
	prometheus.MustRegister(InboundRateLimited)
	prometheus.MustRegister(ActiveSessions)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
