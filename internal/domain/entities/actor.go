package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActorRole distinguishes drivers from referral agents
type ActorRole string

const (
	ActorRoleDriver ActorRole = "driver"
	ActorRoleAgent  ActorRole = "agent"
)

// ActorTier selects policy constants for referrals and withdrawals
type ActorTier string

const (
	// TierElite covers 4-wheel drivers on the elite membership
	TierElite ActorTier = "elite"
	// TierPremium covers 6-14 wheel drivers
	TierPremium ActorTier = "premium"
	// TierAgent is the single agent tier
	TierAgent ActorTier = "agent"
)

// ApprovalStatus is the registration approval state of an actor
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
)

// Actor is a driver or agent. The referral code is assigned at registration
// and never changes; its uniqueness is a global invariant.
type Actor struct {
	ID               uuid.UUID      `json:"id"`
	FullName         string         `json:"fullName"`
	Email            string         `json:"email"`
	MobileNumber     string         `json:"mobileNumber"`
	PasswordHash     string         `json:"-"`
	Role             ActorRole      `json:"role"`
	Tier             ActorTier      `json:"tier"`
	District         string         `json:"district,omitempty"`
	VehicleType      string         `json:"vehicleType,omitempty"`
	WheelType        string         `json:"wheelType,omitempty"`
	ReferralCode     string         `json:"referralCode"`
	ReferredBy       string         `json:"referredBy,omitempty"` // referral code of the referrer
	ApprovalStatus   ApprovalStatus `json:"approvalStatus"`
	PremiumGrantedAt *time.Time     `json:"premiumGrantedAt,omitempty"`
	ProofApproved    bool           `json:"proofApproved"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        *time.Time     `json:"-"`
}

// IsApproved reports whether the actor passed admin approval.
func (a *Actor) IsApproved() bool {
	return a.ApprovalStatus == ApprovalStatusApproved
}

// RegisterActorInput represents registration input for drivers and agents
type RegisterActorInput struct {
	FullName     string `json:"fullName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required,oneof=driver agent"`
	District     string `json:"district"`
	VehicleType  string `json:"vehicleType"`
	WheelType    string `json:"wheelType"`
	ReferredBy   string `json:"referredBy"`
}
