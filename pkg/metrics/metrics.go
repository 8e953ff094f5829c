package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the wallet subsystem counters and gauges.
type Metrics struct {
	AccrualsTotal        *prometheus.CounterVec
	AccrualAmountTotal   *prometheus.CounterVec
	WithdrawalsTotal     *prometheus.CounterVec
	BalanceAuditRuns     *prometheus.CounterVec
	BalanceAuditDrift    prometheus.Gauge
	BalanceAuditLastUnix prometheus.Gauge
}

var (
	registerOnce sync.Once
	registered   *Metrics
)

// New registers and returns the wallet metrics. Registration against the
// default registry happens once; later calls return the same set.
func New() *Metrics {
	registerOnce.Do(func() {
		registered = newMetrics()
	})
	return registered
}

func newMetrics() *Metrics {
	return &Metrics{
		AccrualsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gotruck",
				Subsystem: "wallet",
				Name:      "accruals_total",
				Help:      "Ledger credits partitioned by event kind and outcome.",
			},
			[]string{"event", "outcome"},
		),
		AccrualAmountTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gotruck",
				Subsystem: "wallet",
				Name:      "accrual_amount_total",
				Help:      "Total rupees credited partitioned by wallet kind.",
			},
			[]string{"wallet"},
		),
		WithdrawalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gotruck",
				Subsystem: "wallet",
				Name:      "withdrawals_total",
				Help:      "Withdrawal transitions partitioned by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		BalanceAuditRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gotruck",
				Subsystem: "wallet",
				Name:      "balance_audit_runs_total",
				Help:      "Balance audit job runs partitioned by result.",
			},
			[]string{"result"},
		),
		BalanceAuditDrift: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "gotruck",
				Subsystem: "wallet",
				Name:      "balance_audit_drifted_accounts",
				Help:      "Accounts whose cached balance disagreed with the ledger in the last run.",
			},
		),
		BalanceAuditLastUnix: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "gotruck",
				Subsystem: "wallet",
				Name:      "balance_audit_last_run_unix",
				Help:      "Unix time of the most recent balance audit run.",
			},
		),
	}
}
