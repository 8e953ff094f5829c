package entities

import (
	"time"

	"github.com/google/uuid"
)

// WalletKind identifies which of an actor's two wallets an entry moves
type WalletKind string

const (
	// WalletReward is credited by referral events and admin grants
	WalletReward WalletKind = "reward"
	// WalletDiesel is credited by completed-order referral bonuses
	WalletDiesel WalletKind = "diesel"
)

// Valid reports whether k names a known wallet.
func (k WalletKind) Valid() bool {
	return k == WalletReward || k == WalletDiesel
}

// EntryDirection is the sign of a ledger entry
type EntryDirection string

const (
	DirectionCredit EntryDirection = "credit"
	DirectionDebit  EntryDirection = "debit"
)

// EntryStatus tracks the lifecycle of a ledger entry. Credits are written
// completed; only debits pass through pending.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusApproved  EntryStatus = "approved"
	EntryStatusRejected  EntryStatus = "rejected"
	EntryStatusCompleted EntryStatus = "completed"
)

// Ledger source tags; SourceRef pairs with the tag for idempotency.
const (
	SourceReferralBonus   = "referral-bonus"
	SourceOrderCompletion = "order-completion"
	SourceAdminGrant      = "admin-grant"
	SourceWithdrawal      = "withdrawal"
)

// LedgerEntry is an immutable row in the append-only wallet ledger. Amounts
// are whole rupees. A pending debit doubles as the withdrawal request itself:
// MinWithdrawal and MinBalance snapshot the policy in force when the request
// was created, so it is judged by those values even if tier rules change
// before resolution.
type LedgerEntry struct {
	ID            uuid.UUID      `json:"id"`
	ActorID       uuid.UUID      `json:"actorId"`
	Wallet        WalletKind     `json:"wallet"`
	Direction     EntryDirection `json:"direction"`
	Amount        int64          `json:"amount"`
	Status        EntryStatus    `json:"status"`
	Description   string         `json:"description,omitempty"`
	SourceRef     string         `json:"sourceRef,omitempty"`
	MinWithdrawal int64          `json:"minWithdrawal,omitempty"`
	MinBalance    int64          `json:"minBalance,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	ResolvedAt    *time.Time     `json:"resolvedAt,omitempty"`
}

// IsWithdrawalRequest reports whether the entry is a debit created by the
// withdrawal workflow.
func (e *LedgerEntry) IsWithdrawalRequest() bool {
	return e.Direction == DirectionDebit
}

// Resolved reports whether a debit entry reached a terminal status.
func (e *LedgerEntry) Resolved() bool {
	return e.Status == EntryStatusApproved || e.Status == EntryStatusRejected
}

// WalletAccount caches the current balance of one (actor, wallet) pair. The
// cache is a read optimization only: the ledger remains authoritative and the
// balance audit job recomputes drifted caches.
type WalletAccount struct {
	ID        uuid.UUID  `json:"id"`
	ActorID   uuid.UUID  `json:"actorId"`
	Kind      WalletKind `json:"kind"`
	Balance   int64      `json:"balance"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
