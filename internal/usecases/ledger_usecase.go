package usecases

import (
	"context"

	"github.com/google/uuid"
	"gotruck.backend/internal/domain/entities"
	"gotruck.backend/internal/domain/errors"
	domainRepos "gotruck.backend/internal/domain/repositories"
)

// WalletBalance is one wallet's balance pair: Balance counts settled entries
// only, Spendable additionally subtracts pending withdrawal requests.
type WalletBalance struct {
	Wallet    entities.WalletKind `json:"wallet"`
	Balance   int64               `json:"balance"`
	Spendable int64               `json:"spendable"`
	Committed int64               `json:"committed"`
}

// LedgerUsecase serves the read side of the wallet: balances and history.
// Balances are always derived from the ledger, never from the cache.
type LedgerUsecase struct {
	ledgerRepo domainRepos.LedgerRepository
	walletRepo domainRepos.WalletAccountRepository
}

func NewLedgerUsecase(ledgerRepo domainRepos.LedgerRepository, walletRepo domainRepos.WalletAccountRepository) *LedgerUsecase {
	return &LedgerUsecase{
		ledgerRepo: ledgerRepo,
		walletRepo: walletRepo,
	}
}

// Balances derives both wallets' balance pairs from the ledger.
func (uc *LedgerUsecase) Balances(ctx context.Context, actorID uuid.UUID) ([]WalletBalance, error) {
	kinds := []entities.WalletKind{entities.WalletReward, entities.WalletDiesel}
	balances := make([]WalletBalance, 0, len(kinds))

	for _, kind := range kinds {
		settled, err := uc.ledgerRepo.SumBalance(ctx, actorID, kind, false)
		if err != nil {
			return nil, errors.InternalError(err)
		}
		spendable, err := uc.ledgerRepo.SumBalance(ctx, actorID, kind, true)
		if err != nil {
			return nil, errors.InternalError(err)
		}
		balances = append(balances, WalletBalance{
			Wallet:    kind,
			Balance:   settled,
			Spendable: spendable,
			Committed: settled - spendable,
		})
	}
	return balances, nil
}

// Balance derives a single wallet's balance pair.
func (uc *LedgerUsecase) Balance(ctx context.Context, actorID uuid.UUID, wallet entities.WalletKind) (*WalletBalance, error) {
	if !wallet.Valid() {
		return nil, errors.BadRequest("unknown wallet kind")
	}
	settled, err := uc.ledgerRepo.SumBalance(ctx, actorID, wallet, false)
	if err != nil {
		return nil, errors.InternalError(err)
	}
	spendable, err := uc.ledgerRepo.SumBalance(ctx, actorID, wallet, true)
	if err != nil {
		return nil, errors.InternalError(err)
	}
	return &WalletBalance{
		Wallet:    wallet,
		Balance:   settled,
		Spendable: spendable,
		Committed: settled - spendable,
	}, nil
}

// History pages through an actor's ledger, newest first. A zero wallet kind
// spans both wallets.
func (uc *LedgerUsecase) History(ctx context.Context, actorID uuid.UUID, wallet entities.WalletKind, limit, offset int) ([]*entities.LedgerEntry, int64, error) {
	if wallet != "" && !wallet.Valid() {
		return nil, 0, errors.BadRequest("unknown wallet kind")
	}
	return uc.ledgerRepo.History(ctx, actorID, wallet, limit, offset)
}

// Entry fetches a single ledger entry, scoped to the owning actor unless
// actorID is nil (admin view).
func (uc *LedgerUsecase) Entry(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*entities.LedgerEntry, error) {
	entry, err := uc.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("ledger entry not found")
	}
	if actorID != nil && entry.ActorID != *actorID {
		return nil, errors.Forbidden("entry belongs to another actor")
	}
	return entry, nil
}

// Accounts returns the cached wallet rows for an actor. The handler exposes
// these alongside the derived balances so drift is visible, not hidden.
func (uc *LedgerUsecase) Accounts(ctx context.Context, actorID uuid.UUID) ([]*entities.WalletAccount, error) {
	return uc.walletRepo.ListByActor(ctx, actorID)
}
