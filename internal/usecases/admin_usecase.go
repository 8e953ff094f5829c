package usecases

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gotruck.backend/internal/domain/entities"
	"gotruck.backend/internal/domain/errors"
	domainRepos "gotruck.backend/internal/domain/repositories"
	"gotruck.backend/pkg/logger"
)

// AdminUsecase covers the back-office operations: signup approval, premium
// proof review, and the queues behind them. Approvals fan out into accruals
// through AccrualUsecase so the credit rules stay in one place.
type AdminUsecase struct {
	actorRepo  domainRepos.ActorRepository
	walletRepo domainRepos.WalletAccountRepository
	accrual    *AccrualUsecase
	uow        domainRepos.UnitOfWork
}

func NewAdminUsecase(
	actorRepo domainRepos.ActorRepository,
	walletRepo domainRepos.WalletAccountRepository,
	accrual *AccrualUsecase,
	uow domainRepos.UnitOfWork,
) *AdminUsecase {
	return &AdminUsecase{
		actorRepo:  actorRepo,
		walletRepo: walletRepo,
		accrual:    accrual,
		uow:        uow,
	}
}

// ApproveActor flips a pending registration to approved and, when the actor
// was referred, pays the referral reward in the same transaction. The
// approval flip is conditional, so a repeated call reports ErrAlreadyResolved
// and never re-credits.
func (uc *AdminUsecase) ApproveActor(ctx context.Context, actorID uuid.UUID) (*entities.Actor, error) {
	var actor *entities.Actor

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		actor, err = uc.actorRepo.GetByID(txCtx, actorID)
		if err != nil {
			return errors.NotFound("actor not found")
		}

		flipped, err := uc.actorRepo.Approve(txCtx, actorID)
		if err != nil {
			return errors.InternalError(err)
		}
		if !flipped {
			return errors.AlreadyResolved("actor already approved")
		}
		actor.ApprovalStatus = entities.ApprovalStatusApproved

		// Not every actor has a referrer; an ineligible accrual is not an
		// approval failure.
		if _, err := uc.accrual.AccrueReferralApproved(txCtx, actorID); err != nil {
			if !stderrors.Is(err, errors.ErrNotEligible) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "actor approved", zap.String("actor_id", actorID.String()))
	return actor, nil
}

// ApprovePremiumProof marks a driver's payment proof as reviewed and pays the
// one-time premium activation grant. The premium_granted_at stamp inside
// GrantPremiumActivation keeps the grant single-shot even if the proof is
// re-approved.
func (uc *AdminUsecase) ApprovePremiumProof(ctx context.Context, actorID uuid.UUID) (*entities.LedgerEntry, error) {
	var entry *entities.LedgerEntry

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		actor, err := uc.actorRepo.GetByID(txCtx, actorID)
		if err != nil {
			return errors.NotFound("actor not found")
		}
		if actor.Role != entities.ActorRoleDriver {
			return errors.BadRequest("premium activation applies to drivers only")
		}
		if !actor.IsApproved() {
			return errors.NotApproved("actor registration is not approved")
		}

		if err := uc.actorRepo.SetProofApproved(txCtx, actorID, true); err != nil {
			return errors.InternalError(err)
		}

		entry, err = uc.accrual.GrantPremiumActivation(txCtx, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "premium proof approved", zap.String("actor_id", actorID.String()))
	return entry, nil
}

// ListPendingActors pages the signup approval queue.
func (uc *AdminUsecase) ListPendingActors(ctx context.Context, limit, offset int) ([]*entities.Actor, int64, error) {
	return uc.actorRepo.ListByApprovalStatus(ctx, entities.ApprovalStatusPending, limit, offset)
}

// ListWalletAccounts pages every cached wallet row, for the admin balance
// overview screen.
func (uc *AdminUsecase) ListWalletAccounts(ctx context.Context, limit, offset int) ([]*entities.WalletAccount, error) {
	return uc.walletRepo.ListAll(ctx, limit, offset)
}
