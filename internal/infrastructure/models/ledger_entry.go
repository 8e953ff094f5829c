package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// LedgerEntry rows are append-only; resolved entries are never rewritten.
type LedgerEntry struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ActorID       uuid.UUID   `gorm:"type:uuid;not null;index:idx_ledger_actor_wallet"`
	Wallet        string      `gorm:"type:varchar(20);not null;index:idx_ledger_actor_wallet"`
	Direction     string      `gorm:"type:varchar(10);not null"`
	Amount        int64       `gorm:"not null"`
	Status        string      `gorm:"type:varchar(20);not null;index"`
	Description   string      `gorm:"type:varchar(100)"`
	SourceRef     null.String `gorm:"type:varchar(100);index"`
	MinWithdrawal int64       `gorm:"default:0"`
	MinBalance    int64       `gorm:"default:0"`
	CreatedAt     time.Time   `gorm:"index"`
	ResolvedAt    *time.Time
}

type WalletAccount struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_actor_kind"`
	Kind      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_wallet_actor_kind"`
	Balance   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
