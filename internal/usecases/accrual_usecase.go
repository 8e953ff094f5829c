package usecases

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gotruck.backend/internal/domain/entities"
	"gotruck.backend/internal/domain/errors"
	domainRepos "gotruck.backend/internal/domain/repositories"
	"gotruck.backend/pkg/logger"
	"gotruck.backend/pkg/metrics"
	"gotruck.backend/pkg/utils"
)

// AccrualUsecase translates domain events into ledger credits. Every rule
// about "how much and when" lives here and in constants.go; the endpoints
// never carry their own amounts.
type AccrualUsecase struct {
	actorRepo    domainRepos.ActorRepository
	referralRepo domainRepos.ReferralRepository
	orderRepo    domainRepos.OrderRepository
	ledgerRepo   domainRepos.LedgerRepository
	walletRepo   domainRepos.WalletAccountRepository
	uow          domainRepos.UnitOfWork
	m            *metrics.Metrics
}

func NewAccrualUsecase(
	actorRepo domainRepos.ActorRepository,
	referralRepo domainRepos.ReferralRepository,
	orderRepo domainRepos.OrderRepository,
	ledgerRepo domainRepos.LedgerRepository,
	walletRepo domainRepos.WalletAccountRepository,
	uow domainRepos.UnitOfWork,
	m *metrics.Metrics,
) *AccrualUsecase {
	return &AccrualUsecase{
		actorRepo:    actorRepo,
		referralRepo: referralRepo,
		orderRepo:    orderRepo,
		ledgerRepo:   ledgerRepo,
		walletRepo:   walletRepo,
		uow:          uow,
		m:            m,
	}
}

// AccrueReferralApproved credits the referrer's reward wallet when a referred
// signup is approved. The amount is the one snapshotted on the edge at
// registration time; the referrer's tier changing in between does not move
// it. The paid flag on the referral edge is the idempotency gate:
// reprocessing the same approval is a no-op ErrNotEligible.
func (uc *AccrualUsecase) AccrueReferralApproved(ctx context.Context, referredID uuid.UUID) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		edge, err := uc.referralRepo.GetByReferredID(txCtx, referredID)
		if err != nil {
			return errors.NotEligible("no referral recorded for this actor")
		}

		referrer, err := uc.actorRepo.GetByID(txCtx, edge.ReferrerID)
		if err != nil {
			return errors.NotEligible("referrer cannot be resolved")
		}

		amount := edge.RewardAmount
		if amount <= 0 {
			// Edges recorded before the snapshot existed carry no amount;
			// fall back to the referrer's current tier.
			amount = ReferralRewardFor(referrer)
		}

		flipped, err := uc.referralRepo.MarkPaid(txCtx, edge.ID)
		if err != nil {
			return errors.InternalError(err)
		}
		if !flipped {
			return errors.NotEligible("referral reward already paid")
		}

		entry, err = uc.appendCredit(txCtx, referrer.ID, entities.WalletReward, amount,
			entities.SourceReferralBonus, referredID.String())
		return err
	})

	uc.countAccrual("referral_approved", entry, err)
	return entry, err
}

// AccrueOrderCompleted credits the referrer's diesel wallet when an order
// carrying their referral code is fully paid. The referral_rewarded flag on
// the order makes the event idempotent per order id.
func (uc *AccrualUsecase) AccrueOrderCompleted(ctx context.Context, orderID uuid.UUID) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		order, err := uc.orderRepo.GetByID(txCtx, orderID)
		if err != nil {
			return errors.NotFound("order not found")
		}

		if !order.PaymentComplete() {
			return errors.NotEligible("order payment is not complete")
		}
		if order.ReferralCode == "" {
			return errors.NotEligible("order carries no referral code")
		}

		referrer, err := uc.actorRepo.GetByReferralCode(txCtx, order.ReferralCode)
		if err != nil {
			return errors.NotEligible("referral code cannot be resolved")
		}

		flipped, err := uc.orderRepo.MarkReferralRewarded(txCtx, orderID)
		if err != nil {
			return errors.InternalError(err)
		}
		if !flipped {
			return errors.NotEligible("order referral bonus already credited")
		}

		// Backstop against replays that bypass the order flag.
		exists, err := uc.ledgerRepo.ExistsBySource(txCtx, entities.SourceOrderCompletion, orderID.String())
		if err != nil {
			return errors.InternalError(err)
		}
		if exists {
			return errors.NotEligible("order referral bonus already credited")
		}

		entry, err = uc.appendCredit(txCtx, referrer.ID, entities.WalletDiesel, OrderCompletionBonus,
			entities.SourceOrderCompletion, orderID.String())
		return err
	})

	uc.countAccrual("order_completed", entry, err)
	return entry, err
}

// GrantPremiumActivation issues the one-time 1200 reward credit when an admin
// activates a driver's premium membership. Requires approved proof; the
// premium_granted_at stamp gates repeats.
func (uc *AccrualUsecase) GrantPremiumActivation(ctx context.Context, actorID uuid.UUID) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		actor, err := uc.actorRepo.GetByID(txCtx, actorID)
		if err != nil {
			return errors.NotFound("actor not found")
		}

		if actor.Role != entities.ActorRoleDriver {
			return errors.NotEligible("premium activation applies to drivers only")
		}
		if !actor.ProofApproved {
			return errors.NotEligible("activation proof not approved")
		}

		flipped, err := uc.actorRepo.MarkPremiumGranted(txCtx, actorID)
		if err != nil {
			return errors.InternalError(err)
		}
		if !flipped {
			return errors.NotEligible("premium activation grant already issued")
		}

		entry, err = uc.appendCredit(txCtx, actorID, entities.WalletReward, PremiumActivationGrant,
			entities.SourceAdminGrant, actorID.String())
		return err
	})

	uc.countAccrual("premium_grant", entry, err)
	return entry, err
}

// appendCredit writes a completed credit entry and bumps the cached balance
// inside the caller's transaction.
func (uc *AccrualUsecase) appendCredit(ctx context.Context, actorID uuid.UUID, wallet entities.WalletKind, amount int64, description, sourceRef string) (*entities.LedgerEntry, error) {
	if amount <= 0 {
		return nil, errors.InvalidAmount("credit amount must be positive")
	}

	entry := &entities.LedgerEntry{
		ID:          utils.GenerateUUIDv7(),
		ActorID:     actorID,
		Wallet:      wallet,
		Direction:   entities.DirectionCredit,
		Amount:      amount,
		Status:      entities.EntryStatusCompleted,
		Description: description,
		SourceRef:   sourceRef,
	}

	if err := uc.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, errors.InternalError(err)
	}

	if _, err := uc.walletRepo.GetOrCreate(ctx, actorID, wallet); err != nil {
		return nil, errors.InternalError(err)
	}
	if err := uc.walletRepo.AddToBalance(ctx, actorID, wallet, amount); err != nil {
		return nil, errors.InternalError(err)
	}

	logger.Info(ctx, "ledger credit appended",
		zap.String("actor_id", actorID.String()),
		zap.String("wallet", string(wallet)),
		zap.Int64("amount", amount),
		zap.String("source", description),
	)
	return entry, nil
}

func (uc *AccrualUsecase) countAccrual(event string, entry *entities.LedgerEntry, err error) {
	if uc.m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	uc.m.AccrualsTotal.WithLabelValues(event, outcome).Inc()
	if err == nil && entry != nil {
		uc.m.AccrualAmountTotal.WithLabelValues(string(entry.Wallet)).Add(float64(entry.Amount))
	}
}
