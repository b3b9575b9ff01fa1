package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocksalt_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rocksalt_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WalletCreditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocksalt_wallet_credits_total",
			Help: "Total number of wallet credits",
		},
		[]string{"kind"},
	)

	WalletSpendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocksalt_wallet_spends_total",
			Help: "Total number of wallet spends",
		},
		[]string{"kind"},
	)

	InsufficientBalanceTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rocksalt_wallet_insufficient_balance_total",
			Help: "Total number of spends rejected for insufficient balance",
		},
	)

	PaymentEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocksalt_payment_events_total",
			Help: "Total number of payment provider events received",
		},
		[]string{"outcome"},
	)

	MatchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocksalt_match_requests_total",
			Help: "Total number of compatibility match queries",
		},
		[]string{"anchor"},
	)

	MatchCategoriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocksalt_match_categories_total",
			Help: "Match results computed, by category",
		},
		[]string{"category"},
	)

	RidersPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rocksalt_riders_published_total",
			Help: "Total number of riders published",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCredit(kind string) {
	WalletCreditsTotal.WithLabelValues(kind).Inc()
}

func RecordSpend(kind string) {
	WalletSpendsTotal.WithLabelValues(kind).Inc()
}

func RecordInsufficientBalance() {
	InsufficientBalanceTotal.Inc()
}

func RecordPaymentEvent(outcome string) {
	PaymentEventsTotal.WithLabelValues(outcome).Inc()
}

func RecordMatchRequest(anchor string) {
	MatchRequestsTotal.WithLabelValues(anchor).Inc()
}

func RecordMatchCategory(category string) {
	MatchCategoriesTotal.WithLabelValues(category).Inc()
}

func RecordRiderPublished() {
	RidersPublishedTotal.Inc()
}
