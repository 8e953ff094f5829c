package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gotruck.backend/internal/domain/entities"
	"gotruck.backend/internal/domain/errors"
	domainRepos "gotruck.backend/internal/domain/repositories"
	"gotruck.backend/pkg/logger"
	"gotruck.backend/pkg/metrics"
	"gotruck.backend/pkg/utils"
)

// WithdrawalUsecase is the state machine gating debits behind policy and
// admin approval: Requested -> Approved | Rejected, terminal once resolved.
type WithdrawalUsecase struct {
	actorRepo  domainRepos.ActorRepository
	ledgerRepo domainRepos.LedgerRepository
	walletRepo domainRepos.WalletAccountRepository
	uow        domainRepos.UnitOfWork
	m          *metrics.Metrics
}

func NewWithdrawalUsecase(
	actorRepo domainRepos.ActorRepository,
	ledgerRepo domainRepos.LedgerRepository,
	walletRepo domainRepos.WalletAccountRepository,
	uow domainRepos.UnitOfWork,
	m *metrics.Metrics,
) *WithdrawalUsecase {
	return &WithdrawalUsecase{
		actorRepo:  actorRepo,
		ledgerRepo: ledgerRepo,
		walletRepo: walletRepo,
		uow:        uow,
		m:          m,
	}
}

// RequestWithdrawalInput carries a withdrawal request. Amount zero lets the
// policy decide (fixed tier amount, or full balance for diesel); a non-zero
// amount must match what policy dictates.
type RequestWithdrawalInput struct {
	ActorID uuid.UUID
	Wallet  entities.WalletKind
	Amount  int64
}

// Request admits a withdrawal as a pending debit entry. The wallet account
// row is locked before the balance read: a concurrent request for the same
// wallet blocks on the lock, and once it acquires it the first request's
// pending debit has committed and is subtracted from its spendable view.
// Under READ COMMITTED the transaction alone would not do this; without the
// lock both requests read the pre-insert balance and both are admitted.
func (uc *WithdrawalUsecase) Request(ctx context.Context, input RequestWithdrawalInput) (*entities.LedgerEntry, error) {
	if !input.Wallet.Valid() {
		return nil, errors.BadRequest("unknown wallet kind")
	}

	var entry *entities.LedgerEntry

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		actor, err := uc.actorRepo.GetByID(txCtx, input.ActorID)
		if err != nil {
			return errors.NotFound("actor not found")
		}

		policy, err := WithdrawalPolicyFor(actor.Tier, input.Wallet)
		if err != nil {
			return err
		}

		// The wallet row is the serialization point for admission.
		if err := uc.walletRepo.LockForUpdate(txCtx, input.ActorID, input.Wallet); err != nil {
			return errors.InternalError(err)
		}

		spendable, err := uc.ledgerRepo.SumBalance(txCtx, input.ActorID, input.Wallet, true)
		if err != nil {
			return errors.InternalError(err)
		}

		amount := policy.FixedAmount
		if policy.Sweep() {
			amount = spendable
		}
		if input.Amount != 0 && input.Amount != amount {
			return errors.InvalidAmount("withdrawal amount does not match the policy amount")
		}
		if amount <= 0 {
			return errors.InsufficientBalance("nothing to withdraw")
		}
		if spendable < policy.MinBalance {
			return errors.InsufficientBalance("balance below the withdrawal minimum")
		}

		entry = &entities.LedgerEntry{
			ID:            utils.GenerateUUIDv7(),
			ActorID:       input.ActorID,
			Wallet:        input.Wallet,
			Direction:     entities.DirectionDebit,
			Amount:        amount,
			Status:        entities.EntryStatusPending,
			Description:   entities.SourceWithdrawal,
			MinWithdrawal: amount,
			MinBalance:    policy.MinBalance,
		}
		if err := uc.ledgerRepo.Create(txCtx, entry); err != nil {
			return errors.InternalError(err)
		}

		// Cached balance is untouched until approval; the pending entry
		// only shrinks the spendable view.
		logger.Info(txCtx, "withdrawal requested",
			zap.String("actor_id", input.ActorID.String()),
			zap.String("wallet", string(input.Wallet)),
			zap.Int64("amount", amount),
		)
		return nil
	})

	uc.countWithdrawal("request", err)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Approve settles a pending request: the conditional pending -> approved
// update is the single-writer gate, and the cache debit only happens when
// this call won that update. A second Approve sees zero rows and reports
// ErrAlreadyResolved without touching the balance.
func (uc *WithdrawalUsecase) Approve(ctx context.Context, requestID uuid.UUID) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		entry, err = uc.ledgerRepo.GetByID(txCtx, requestID)
		if err != nil {
			return errors.NotFound("withdrawal request not found")
		}
		if !entry.IsWithdrawalRequest() {
			return errors.BadRequest("ledger entry is not a withdrawal request")
		}

		now := time.Now()
		rows, err := uc.ledgerRepo.ResolvePending(txCtx, requestID, entities.EntryStatusApproved, now)
		if err != nil {
			return errors.InternalError(err)
		}
		if rows == 0 {
			return errors.AlreadyResolved("withdrawal request already resolved")
		}

		if err := uc.walletRepo.AddToBalance(txCtx, entry.ActorID, entry.Wallet, -entry.Amount); err != nil {
			return errors.InternalError(err)
		}

		entry.Status = entities.EntryStatusApproved
		entry.ResolvedAt = &now

		logger.Info(txCtx, "withdrawal approved",
			zap.String("request_id", requestID.String()),
			zap.String("actor_id", entry.ActorID.String()),
			zap.Int64("amount", entry.Amount),
		)
		return nil
	})

	uc.countWithdrawal("approve", err)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Reject resolves a pending request without any balance movement.
func (uc *WithdrawalUsecase) Reject(ctx context.Context, requestID uuid.UUID) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		entry, err = uc.ledgerRepo.GetByID(txCtx, requestID)
		if err != nil {
			return errors.NotFound("withdrawal request not found")
		}
		if !entry.IsWithdrawalRequest() {
			return errors.BadRequest("ledger entry is not a withdrawal request")
		}

		now := time.Now()
		rows, err := uc.ledgerRepo.ResolvePending(txCtx, requestID, entities.EntryStatusRejected, now)
		if err != nil {
			return errors.InternalError(err)
		}
		if rows == 0 {
			return errors.AlreadyResolved("withdrawal request already resolved")
		}

		entry.Status = entities.EntryStatusRejected
		entry.ResolvedAt = &now

		logger.Info(txCtx, "withdrawal rejected",
			zap.String("request_id", requestID.String()),
			zap.String("actor_id", entry.ActorID.String()),
		)
		return nil
	})

	uc.countWithdrawal("reject", err)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListPending returns the admin approval queue, newest first.
func (uc *WithdrawalUsecase) ListPending(ctx context.Context, limit, offset int) ([]*entities.LedgerEntry, int64, error) {
	return uc.ledgerRepo.ListPendingWithdrawals(ctx, limit, offset)
}

func (uc *WithdrawalUsecase) countWithdrawal(action string, err error) {
	if uc.m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	uc.m.WithdrawalsTotal.WithLabelValues(action, outcome).Inc()
}
