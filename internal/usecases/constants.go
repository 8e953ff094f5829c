package usecases

import (
	"gotruck.backend/internal/domain/entities"
	"gotruck.backend/internal/domain/errors"
)

// All accrual and withdrawal amounts live here. The amounts are whole rupees.
const (
	// Referral credits on approval of the referred signup, selected by the
	// referrer's tier.
	ReferralRewardElite   int64 = 500
	ReferralRewardPremium int64 = 10
	ReferralRewardAgent   int64 = 10

	// Diesel bonus to the referrer when an order carrying their code is
	// fully paid.
	OrderCompletionBonus int64 = 100

	// One-time reward credit when an admin activates a driver's premium
	// membership against uploaded proof.
	PremiumActivationGrant int64 = 1200
)

// WithdrawalPolicy is the rule pair for one (tier, wallet). FixedAmount zero
// means the request sweeps the full spendable balance (diesel behaviour);
// otherwise the request must be for exactly FixedAmount. MinBalance is the
// spendable balance required at request time.
type WithdrawalPolicy struct {
	FixedAmount int64
	MinBalance  int64
}

// Sweep reports whether the policy withdraws the whole spendable balance.
func (p WithdrawalPolicy) Sweep() bool {
	return p.FixedAmount == 0
}

// Reward withdrawals are fixed-amount per tier. The elite rule keeps 1999 in
// the wallet after the 500 payout, so the request needs 2499 spendable.
var rewardWithdrawalPolicies = map[entities.ActorTier]WithdrawalPolicy{
	entities.TierElite:   {FixedAmount: 500, MinBalance: 2499},
	entities.TierPremium: {FixedAmount: 1500, MinBalance: 1500},
	entities.TierAgent:   {FixedAmount: 1500, MinBalance: 1500},
}

// Diesel withdrawals sweep the full balance once it reaches 3000, for every
// actor type.
var dieselWithdrawalPolicy = WithdrawalPolicy{FixedAmount: 0, MinBalance: 3000}

// WithdrawalPolicyFor resolves the policy for a tier and wallet kind.
func WithdrawalPolicyFor(tier entities.ActorTier, wallet entities.WalletKind) (WithdrawalPolicy, error) {
	switch wallet {
	case entities.WalletDiesel:
		return dieselWithdrawalPolicy, nil
	case entities.WalletReward:
		p, ok := rewardWithdrawalPolicies[tier]
		if !ok {
			return WithdrawalPolicy{}, errors.BadRequest("unknown actor tier")
		}
		return p, nil
	default:
		return WithdrawalPolicy{}, errors.BadRequest("unknown wallet kind")
	}
}

// ReferralRewardFor selects the referral credit amount by the referrer's
// role and tier.
func ReferralRewardFor(referrer *entities.Actor) int64 {
	if referrer.Role == entities.ActorRoleAgent {
		return ReferralRewardAgent
	}
	if referrer.Tier == entities.TierElite {
		return ReferralRewardElite
	}
	return ReferralRewardPremium
}

// TierForRegistration maps registration input to a tier: 4-wheel drivers are
// elite, all other drivers premium, agents have a single tier.
func TierForRegistration(role entities.ActorRole, wheelType string) entities.ActorTier {
	if role == entities.ActorRoleAgent {
		return entities.TierAgent
	}
	if wheelType == "4" {
		return entities.TierElite
	}
	return entities.TierPremium
}
