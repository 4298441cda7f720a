package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "social_login"

var (
	// LoginAttempts counts BeginLogin calls that produced a provider redirect.
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Logins started, by provider.",
		},
		[]string{"provider"},
	)

	// LoginOutcomes counts finished callbacks. result is "success" or a failure reason.
	LoginOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_outcomes_total",
			Help:      "Completed login callbacks, by provider and result.",
		},
		[]string{"provider", "result"},
	)

	// ProviderExchangeDuration observes the code exchange round trip.
	ProviderExchangeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_exchange_duration_seconds",
			Help:      "Latency of the authorization code exchange and profile lookup.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	Logouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Logout requests.",
		},
	)

	// HTTPRequestsTotal is labelled by route template, not raw path.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "http",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "http",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

// InitMetrics registers all collectors with registerer, or the default
// registerer when nil. It panics on duplicate registration.
func InitMetrics(registerer prometheus.Registerer) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	registerer.MustRegister(
		LoginAttempts,
		LoginOutcomes,
		ProviderExchangeDuration,
		Logouts,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
