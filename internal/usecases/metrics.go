package usecases

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlementsExecutedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blinkpay_settlements_executed_total",
		Help: "Settlements confirmed on-chain, by route kind.",
	}, []string{"route"})

	settlementsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blinkpay_settlements_failed_total",
		Help: "Settlement attempts that failed, by route kind and stage.",
	}, []string{"route", "stage"})

	depositsMatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blinkpay_deposits_matched_total",
		Help: "Inbound deposit events matched to a merchant, by delivery result.",
	}, []string{"delivery"})

	payoutsInitiatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blinkpay_payouts_initiated_total",
		Help: "Automatic fiat payouts initiated from completed deposits.",
	})
)
