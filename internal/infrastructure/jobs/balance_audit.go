package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	domainRepos "gotruck.backend/internal/domain/repositories"
	"gotruck.backend/pkg/logger"
	"gotruck.backend/pkg/metrics"
)

// BalanceAuditJob periodically recomputes cached wallet balances from the
// ledger. The cache is never authoritative, so a drifted row is repaired by
// overwriting it with the derived sum, never the other way around.
type BalanceAuditJob struct {
	ledgerRepo domainRepos.LedgerRepository
	walletRepo domainRepos.WalletAccountRepository
	m          *metrics.Metrics
	interval   time.Duration
	repair     bool
	batchSize  int
	stop       chan struct{}
}

func NewBalanceAuditJob(
	ledgerRepo domainRepos.LedgerRepository,
	walletRepo domainRepos.WalletAccountRepository,
	m *metrics.Metrics,
	interval time.Duration,
	repair bool,
) *BalanceAuditJob {
	return &BalanceAuditJob{
		ledgerRepo: ledgerRepo,
		walletRepo: walletRepo,
		m:          m,
		interval:   interval,
		repair:     repair,
		batchSize:  200,
		stop:       make(chan struct{}),
	}
}

func (j *BalanceAuditJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting balance audit job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "balance audit job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "balance audit job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

func (j *BalanceAuditJob) Stop() {
	close(j.stop)
}

// RunOnce walks every cached wallet row and compares it against the settled
// ledger sum. Returns the number of drifted accounts found.
func (j *BalanceAuditJob) RunOnce(ctx context.Context) int {
	drifted := 0
	offset := 0

	for {
		accounts, err := j.walletRepo.ListAll(ctx, j.batchSize, offset)
		if err != nil {
			logger.Error(ctx, "balance audit failed to list accounts", zap.Error(err))
			j.record("error", drifted)
			return drifted
		}
		if len(accounts) == 0 {
			break
		}

		for _, account := range accounts {
			derived, err := j.ledgerRepo.SumBalance(ctx, account.ActorID, account.Kind, false)
			if err != nil {
				logger.Error(ctx, "balance audit failed to derive balance",
					zap.String("actor_id", account.ActorID.String()),
					zap.String("wallet", string(account.Kind)),
					zap.Error(err),
				)
				continue
			}
			if derived == account.Balance {
				continue
			}

			drifted++
			logger.Warn(ctx, "cached balance drifted from ledger",
				zap.String("actor_id", account.ActorID.String()),
				zap.String("wallet", string(account.Kind)),
				zap.Int64("cached", account.Balance),
				zap.Int64("derived", derived),
			)

			if j.repair {
				if err := j.walletRepo.SetBalance(ctx, account.ActorID, account.Kind, derived); err != nil {
					logger.Error(ctx, "balance audit failed to repair account",
						zap.String("actor_id", account.ActorID.String()),
						zap.Error(err),
					)
				}
			}
		}

		if len(accounts) < j.batchSize {
			break
		}
		offset += j.batchSize
	}

	result := "clean"
	if drifted > 0 {
		result = "drift"
	}
	j.record(result, drifted)
	return drifted
}

func (j *BalanceAuditJob) record(result string, drifted int) {
	if j.m == nil {
		return
	}
	j.m.BalanceAuditRuns.WithLabelValues(result).Inc()
	j.m.BalanceAuditDrift.Set(float64(drifted))
	j.m.BalanceAuditLastUnix.Set(float64(time.Now().Unix()))
}
