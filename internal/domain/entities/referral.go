package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReferralEdge records who referred whom and whether the referral reward has
// been paid out. Created at the referred actor's registration; Paid flips to
// true exactly once, when the referred actor is approved.
type ReferralEdge struct {
	ID           uuid.UUID  `json:"id"`
	ReferrerID   uuid.UUID  `json:"referrerId"`
	ReferredID   uuid.UUID  `json:"referredId"`
	ReferralCode string     `json:"referralCode"`
	RewardAmount int64      `json:"rewardAmount"`
	Paid         bool       `json:"paid"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
