package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptostore_payments_processed_total",
		Help: "Payment intake outcomes.",
	}, []string{"status"})

	PaymentAmountUSD = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cryptostore_payment_amount_usd",
		Help:    "Accepted payment amounts in USD.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	PriceRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptostore_price_refresh_total",
		Help: "Price refresh attempts by result.",
	}, []string{"result"})

	PriceLastRefreshTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cryptostore_price_last_refresh_timestamp_seconds",
		Help: "Unix time of the last successful price refresh.",
	})

	OutboxRelayedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptostore_outbox_relayed_total",
		Help: "Outbox messages relayed to Kafka by result.",
	}, []string{"result"})
)
