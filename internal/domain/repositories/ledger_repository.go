package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gotruck.backend/internal/domain/entities"
)

// LedgerRepository is the append-only transaction log. Entries are never
// mutated after reaching approved/rejected/completed; the only legal update
// is the conditional pending -> terminal transition of a debit.
type LedgerRepository interface {
	Create(ctx context.Context, entry *entities.LedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.LedgerEntry, error)
	// SumBalance derives the balance from the ledger: credits minus approved
	// debits. With includePending it also subtracts pending debits, giving
	// the spendable view used by withdrawal eligibility checks.
	SumBalance(ctx context.Context, actorID uuid.UUID, wallet entities.WalletKind, includePending bool) (int64, error)
	// History returns entries newest first, ordered created_at DESC then id
	// DESC so repeated queries see the same stable sequence. A zero wallet
	// kind means both wallets.
	History(ctx context.Context, actorID uuid.UUID, wallet entities.WalletKind, limit, offset int) ([]*entities.LedgerEntry, int64, error)
	// ResolvePending transitions a pending debit to status and stamps the
	// resolution time, only if it is still pending. Returns the number of
	// rows changed: zero means the request was already resolved.
	ResolvePending(ctx context.Context, id uuid.UUID, status entities.EntryStatus, resolvedAt time.Time) (int64, error)
	ListPendingWithdrawals(ctx context.Context, limit, offset int) ([]*entities.LedgerEntry, int64, error)
	// ExistsBySource reports whether an entry with the given description tag
	// and source reference already exists (accrual idempotency backstop).
	ExistsBySource(ctx context.Context, description, sourceRef string) (bool, error)
}

// WalletAccountRepository maintains the cached per-wallet balances.
type WalletAccountRepository interface {
	GetOrCreate(ctx context.Context, actorID uuid.UUID, kind entities.WalletKind) (*entities.WalletAccount, error)
	// LockForUpdate takes a row lock on the wallet account, creating the
	// row first if the actor never touched this wallet. The lock is held
	// for the rest of the caller's transaction so a balance read followed
	// by an insert serializes against concurrent withdrawal requests.
	LockForUpdate(ctx context.Context, actorID uuid.UUID, kind entities.WalletKind) error
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]*entities.WalletAccount, error)
	// AddToBalance applies a signed delta to the cached balance.
	AddToBalance(ctx context.Context, actorID uuid.UUID, kind entities.WalletKind, delta int64) error
	SetBalance(ctx context.Context, actorID uuid.UUID, kind entities.WalletKind, balance int64) error
	ListAll(ctx context.Context, limit, offset int) ([]*entities.WalletAccount, error)
}
