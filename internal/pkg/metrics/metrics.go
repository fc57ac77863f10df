package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Refresh cycle outcomes used as the "outcome" label value.
const (
	OutcomeUpdated  = "updated"
	OutcomeSkipped  = "skipped"
	OutcomeNoRoute  = "no_route"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

var (
	// RefreshTotal counts refresh cycles per sensor by outcome.
	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayline_sensor_refresh_total",
			Help: "Total number of sensor refresh cycles by outcome.",
		},
		[]string{"sensor", "outcome"},
	)

	// FetchDuration tracks the latency of route fetches against the provider.
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wayline_route_fetch_duration_seconds",
			Help:    "Latency of route computations at the routing provider.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sensor"},
	)

	// TravelTime exposes the sensor's current value in minutes.
	TravelTime = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wayline_travel_time_minutes",
			Help: "Current travel time reported by the sensor, in minutes.",
		},
		[]string{"sensor"},
	)
)

func init() {
	prometheus.MustRegister(RefreshTotal)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(TravelTime)
}
