package models

import (
	"time"

	"github.com/google/uuid"
)

type ReferralEdge struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ReferrerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ReferredID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ReferralCode string    `gorm:"type:varchar(16);not null"`
	RewardAmount int64     `gorm:"default:0"`
	Paid         bool      `gorm:"not null;default:false;index"`
	PaidAt       *time.Time
	CreatedAt    time.Time
}
