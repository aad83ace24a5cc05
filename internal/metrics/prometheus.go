package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	ChannelAuthSuccessTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_channel_auth_success_total",
		Help: "Total number of channel authorization grants issued, by policy.",
	}, []string{"policy"})
	ChannelAuthFailureTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_channel_auth_failure_total",
		Help: "Total number of refused channel authorization requests, by policy.",
	}, []string{"policy"})
	TokenValidationFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_token_validation_failure_total",
		Help: "Total number of bearer tokens that failed validation.",
	})
	EventsTriggeredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_events_triggered_total",
		Help: "Total number of events published through the provider.",
	})
	SessionCacheHitTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_session_cache_hit_total",
		Help: "Total number of session cache hits on the validation path.",
	})
	SessionCacheMissTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_session_cache_miss_total",
		Help: "Total number of session cache misses on the validation path.",
	})
)

// Register registers the relay metrics with the given registerer. It should
// be called once at application startup; the metric instances themselves are
// usable (but unexported to scrapes) before that.
func Register(reg prometheus.Registerer) {
	if reg == nil {
		log.Error().Msg("Prometheus registry is nil, cannot register relay metrics.")
		return
	}
	collectors := []prometheus.Collector{
		ChannelAuthSuccessTotal,
		ChannelAuthFailureTotal,
		TokenValidationFailureTotal,
		EventsTriggeredTotal,
		SessionCacheHitTotal,
		SessionCacheMissTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Msg("Failed to register relay metric")
		}
	}
	log.Info().Msg("Relay Prometheus metrics registered.")
}
