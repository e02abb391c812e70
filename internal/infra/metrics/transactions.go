package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"memorial-platform/internal/domain/model"
)

func init() {
	register(
		transactionsTotal,
		transactionsPending,
		transactionReviewSeconds,
	)
}

var (
	transactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_total",
			Help: "Payment claims by outcome (submitted/completed/failed).",
		},
		[]string{"outcome", "method"},
	)

	transactionsPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "transactions_pending",
			Help: "Current size of the admin review queue.",
		},
	)

	transactionReviewSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transaction_review_seconds",
			Help:    "Time from claim submission to admin verdict.",
			Buckets: []float64{60, 300, 900, 3600, 14400, 86400, 259200},
		},
	)
)

func IncTransaction(outcome string, method model.PaymentMethod) {
	transactionsTotal.WithLabelValues(norm(outcome), norm(string(method))).Inc()
}

func SetTransactionsPending(n int) {
	transactionsPending.Set(float64(n))
}

func ObserveReviewLatency(seconds float64) {
	transactionReviewSeconds.Observe(seconds)
}
