package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values shared by the counters below.
const (
	OutcomeSuccess   = "success"
	OutcomeFallback  = "fallback"
	OutcomeTimeout   = "timeout"
	OutcomeFound     = "found"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
	OutcomeAccepted  = "accepted"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lacri_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lacri_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	UtterancesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lacri_utterances_total",
			Help: "Total number of user utterances routed to a skill.",
		},
		[]string{"skill"},
	)

	CompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lacri_completions_total",
			Help: "Total number of completion calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	CompletionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lacri_completion_duration_seconds",
			Help:    "Completion call duration in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"provider"},
	)

	WeatherLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lacri_weather_lookups_total",
			Help: "Total number of weather lookups by outcome.",
		},
		[]string{"outcome"},
	)

	ConversationsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lacri_conversations_active",
			Help: "Number of users with a live history, per skill.",
		},
		[]string{"skill"},
	)

	TelegramUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lacri_telegram_updates_total",
			Help: "Total number of Telegram updates received by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UtterancesTotal,
		CompletionsTotal,
		CompletionDuration,
		WeatherLookupsTotal,
		ConversationsActive,
		TelegramUpdatesTotal,
	)
}
