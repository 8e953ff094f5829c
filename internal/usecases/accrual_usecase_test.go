package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gotruck.backend/internal/domain/entities"
	domainerrors "gotruck.backend/internal/domain/errors"
	"gotruck.backend/internal/usecases"
)

type accrualFixture struct {
	uc           *usecases.AccrualUsecase
	actorRepo    *MockActorRepository
	referralRepo *MockReferralRepository
	orderRepo    *MockOrderRepository
	ledgerRepo   *MockLedgerRepository
	walletRepo   *MockWalletAccountRepository
	uow          *MockUnitOfWork
}

func newAccrualFixture() *accrualFixture {
	f := &accrualFixture{
		actorRepo:    new(MockActorRepository),
		referralRepo: new(MockReferralRepository),
		orderRepo:    new(MockOrderRepository),
		ledgerRepo:   new(MockLedgerRepository),
		walletRepo:   new(MockWalletAccountRepository),
		uow:          new(MockUnitOfWork),
	}
	f.uc = usecases.NewAccrualUsecase(f.actorRepo, f.referralRepo, f.orderRepo, f.ledgerRepo, f.walletRepo, f.uow, nil)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	return f
}

// expectCredit wires the append path: ledger insert, wallet upsert, cache bump.
func (f *accrualFixture) expectCredit(actorID uuid.UUID, wallet entities.WalletKind, amount int64) {
	f.ledgerRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.LedgerEntry")).Return(nil).Once()
	f.walletRepo.On("GetOrCreate", mock.Anything, actorID, wallet).Return(&entities.WalletAccount{ActorID: actorID, Kind: wallet}, nil).Once()
	f.walletRepo.On("AddToBalance", mock.Anything, actorID, wallet, amount).Return(nil).Once()
}

func TestAccrualUsecase_ReferralApproved_EliteAmount(t *testing.T) {
	f := newAccrualFixture()
	referrerID := uuid.New()
	referredID := uuid.New()
	edgeID := uuid.New()

	edge := &entities.ReferralEdge{ID: edgeID, ReferrerID: referrerID, ReferredID: referredID, RewardAmount: 500}
	f.referralRepo.On("GetByReferredID", mock.Anything, referredID).Return(edge, nil)
	f.actorRepo.On("GetByID", mock.Anything, referrerID).Return(&entities.Actor{
		ID:   referrerID,
		Role: entities.ActorRoleDriver,
		Tier: entities.TierElite,
	}, nil)
	f.referralRepo.On("MarkPaid", mock.Anything, edgeID).Return(true, nil).Once()
	f.expectCredit(referrerID, entities.WalletReward, 500)

	entry, err := f.uc.AccrueReferralApproved(context.Background(), referredID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), entry.Amount)
	assert.Equal(t, entities.WalletReward, entry.Wallet)
	assert.Equal(t, entities.DirectionCredit, entry.Direction)
	assert.Equal(t, entities.EntryStatusCompleted, entry.Status)
	assert.Equal(t, referredID.String(), entry.SourceRef)
	f.walletRepo.AssertExpectations(t)
}

// The edge carries the reward snapshotted at registration; the referrer
// climbing tiers before the approval lands must not change what gets paid.
func TestAccrualUsecase_ReferralApproved_UsesRegistrationSnapshot(t *testing.T) {
	f := newAccrualFixture()
	referrerID := uuid.New()
	referredID := uuid.New()
	edgeID := uuid.New()

	// Registered while premium (10), elite by the time the admin approves.
	f.referralRepo.On("GetByReferredID", mock.Anything, referredID).Return(&entities.ReferralEdge{
		ID: edgeID, ReferrerID: referrerID, ReferredID: referredID, RewardAmount: 10,
	}, nil)
	f.actorRepo.On("GetByID", mock.Anything, referrerID).Return(&entities.Actor{
		ID: referrerID, Role: entities.ActorRoleDriver, Tier: entities.TierElite,
	}, nil)
	f.referralRepo.On("MarkPaid", mock.Anything, edgeID).Return(true, nil)
	f.expectCredit(referrerID, entities.WalletReward, 10)

	entry, err := f.uc.AccrueReferralApproved(context.Background(), referredID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), entry.Amount)
	f.walletRepo.AssertExpectations(t)
}

// Edges written before the snapshot field existed carry a zero amount and
// fall back to the referrer's current tier.
func TestAccrualUsecase_ReferralApproved_LegacyEdgeTierFallback(t *testing.T) {
	cases := []struct {
		name   string
		role   entities.ActorRole
		tier   entities.ActorTier
		amount int64
	}{
		{"elite driver", entities.ActorRoleDriver, entities.TierElite, 500},
		{"premium driver", entities.ActorRoleDriver, entities.TierPremium, 10},
		{"agent", entities.ActorRoleAgent, entities.TierAgent, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAccrualFixture()
			referrerID := uuid.New()
			referredID := uuid.New()
			edgeID := uuid.New()

			f.referralRepo.On("GetByReferredID", mock.Anything, referredID).Return(&entities.ReferralEdge{
				ID: edgeID, ReferrerID: referrerID, ReferredID: referredID,
			}, nil)
			f.actorRepo.On("GetByID", mock.Anything, referrerID).Return(&entities.Actor{
				ID: referrerID, Role: tc.role, Tier: tc.tier,
			}, nil)
			f.referralRepo.On("MarkPaid", mock.Anything, edgeID).Return(true, nil)
			f.expectCredit(referrerID, entities.WalletReward, tc.amount)

			entry, err := f.uc.AccrueReferralApproved(context.Background(), referredID)
			require.NoError(t, err)
			assert.Equal(t, tc.amount, entry.Amount)
		})
	}
}

func TestAccrualUsecase_ReferralApproved_AlreadyPaid(t *testing.T) {
	f := newAccrualFixture()
	referrerID := uuid.New()
	referredID := uuid.New()
	edgeID := uuid.New()

	f.referralRepo.On("GetByReferredID", mock.Anything, referredID).Return(&entities.ReferralEdge{
		ID: edgeID, ReferrerID: referrerID, ReferredID: referredID, Paid: true,
	}, nil)
	f.actorRepo.On("GetByID", mock.Anything, referrerID).Return(&entities.Actor{
		ID: referrerID, Role: entities.ActorRoleDriver, Tier: entities.TierElite,
	}, nil)
	f.referralRepo.On("MarkPaid", mock.Anything, edgeID).Return(false, nil)

	_, err := f.uc.AccrueReferralApproved(context.Background(), referredID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotEligible)
	f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccrualUsecase_ReferralApproved_NoEdge(t *testing.T) {
	f := newAccrualFixture()
	referredID := uuid.New()

	f.referralRepo.On("GetByReferredID", mock.Anything, referredID).Return(nil, errors.New("record not found"))

	_, err := f.uc.AccrueReferralApproved(context.Background(), referredID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotEligible)
}

func TestAccrualUsecase_OrderCompleted_CreditsDiesel(t *testing.T) {
	f := newAccrualFixture()
	referrerID := uuid.New()
	orderID := uuid.New()

	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
		ID:            orderID,
		ReferralCode:  "TRK12345",
		PaymentStatus: entities.PaymentStatusComplete,
	}, nil)
	f.actorRepo.On("GetByReferralCode", mock.Anything, "TRK12345").Return(&entities.Actor{
		ID: referrerID, Role: entities.ActorRoleDriver, Tier: entities.TierPremium,
	}, nil)
	f.orderRepo.On("MarkReferralRewarded", mock.Anything, orderID).Return(true, nil).Once()
	f.ledgerRepo.On("ExistsBySource", mock.Anything, entities.SourceOrderCompletion, orderID.String()).Return(false, nil)
	f.expectCredit(referrerID, entities.WalletDiesel, 100)

	entry, err := f.uc.AccrueOrderCompleted(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), entry.Amount)
	assert.Equal(t, entities.WalletDiesel, entry.Wallet)
	assert.Equal(t, orderID.String(), entry.SourceRef)
}

func TestAccrualUsecase_OrderCompleted_PaymentIncomplete(t *testing.T) {
	f := newAccrualFixture()
	orderID := uuid.New()

	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
		ID:            orderID,
		ReferralCode:  "TRK12345",
		Amount:        10000,
		Advance:       4000,
		PaymentStatus: entities.PaymentStatusPartial,
	}, nil)

	_, err := f.uc.AccrueOrderCompleted(context.Background(), orderID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotEligible)
	f.orderRepo.AssertNotCalled(t, "MarkReferralRewarded", mock.Anything, mock.Anything)
}

func TestAccrualUsecase_OrderCompleted_NoReferralCode(t *testing.T) {
	f := newAccrualFixture()
	orderID := uuid.New()

	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
		ID:            orderID,
		PaymentStatus: entities.PaymentStatusComplete,
	}, nil)

	_, err := f.uc.AccrueOrderCompleted(context.Background(), orderID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotEligible)
}

func TestAccrualUsecase_OrderCompleted_AlreadyRewarded(t *testing.T) {
	f := newAccrualFixture()
	referrerID := uuid.New()
	orderID := uuid.New()

	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
		ID:               orderID,
		ReferralCode:     "TRK12345",
		PaymentStatus:    entities.PaymentStatusComplete,
		ReferralRewarded: true,
	}, nil)
	f.actorRepo.On("GetByReferralCode", mock.Anything, "TRK12345").Return(&entities.Actor{ID: referrerID}, nil)
	f.orderRepo.On("MarkReferralRewarded", mock.Anything, orderID).Return(false, nil)

	_, err := f.uc.AccrueOrderCompleted(context.Background(), orderID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotEligible)
	f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccrualUsecase_OrderCompleted_LedgerBackstop(t *testing.T) {
	f := newAccrualFixture()
	referrerID := uuid.New()
	orderID := uuid.New()

	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
		ID:            orderID,
		ReferralCode:  "TRK12345",
		PaymentStatus: entities.PaymentStatusComplete,
	}, nil)
	f.actorRepo.On("GetByReferralCode", mock.Anything, "TRK12345").Return(&entities.Actor{ID: referrerID}, nil)
	f.orderRepo.On("MarkReferralRewarded", mock.Anything, orderID).Return(true, nil)
	f.ledgerRepo.On("ExistsBySource", mock.Anything, entities.SourceOrderCompletion, orderID.String()).Return(true, nil)

	_, err := f.uc.AccrueOrderCompleted(context.Background(), orderID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotEligible)
	f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccrualUsecase_PremiumGrant_IssuesOnce(t *testing.T) {
	f := newAccrualFixture()
	actorID := uuid.New()

	f.actorRepo.On("GetByID", mock.Anything, actorID).Return(&entities.Actor{
		ID:            actorID,
		Role:          entities.ActorRoleDriver,
		Tier:          entities.TierPremium,
		ProofApproved: true,
	}, nil)
	f.actorRepo.On("MarkPremiumGranted", mock.Anything, actorID).Return(true, nil).Once()
	f.expectCredit(actorID, entities.WalletReward, 1200)

	entry, err := f.uc.GrantPremiumActivation(context.Background(), actorID)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), entry.Amount)
	assert.Equal(t, entities.SourceAdminGrant, entry.Description)
}

func TestAccrualUsecase_PremiumGrant_Gates(t *testing.T) {
	granted := time.Now()

	t.Run("agents are not eligible", func(t *testing.T) {
		f := newAccrualFixture()
		actorID := uuid.New()
		f.actorRepo.On("GetByID", mock.Anything, actorID).Return(&entities.Actor{
			ID: actorID, Role: entities.ActorRoleAgent, Tier: entities.TierAgent, ProofApproved: true,
		}, nil)

		_, err := f.uc.GrantPremiumActivation(context.Background(), actorID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrNotEligible)
	})

	t.Run("proof must be approved first", func(t *testing.T) {
		f := newAccrualFixture()
		actorID := uuid.New()
		f.actorRepo.On("GetByID", mock.Anything, actorID).Return(&entities.Actor{
			ID: actorID, Role: entities.ActorRoleDriver, Tier: entities.TierPremium,
		}, nil)

		_, err := f.uc.GrantPremiumActivation(context.Background(), actorID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrNotEligible)
	})

	t.Run("grant is one-time", func(t *testing.T) {
		f := newAccrualFixture()
		actorID := uuid.New()
		f.actorRepo.On("GetByID", mock.Anything, actorID).Return(&entities.Actor{
			ID: actorID, Role: entities.ActorRoleDriver, Tier: entities.TierPremium,
			ProofApproved: true, PremiumGrantedAt: &granted,
		}, nil)
		f.actorRepo.On("MarkPremiumGranted", mock.Anything, actorID).Return(false, nil)

		_, err := f.uc.GrantPremiumActivation(context.Background(), actorID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrNotEligible)
		f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
