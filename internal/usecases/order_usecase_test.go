package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gotruck.backend/internal/domain/entities"
	domainerrors "gotruck.backend/internal/domain/errors"
	"gotruck.backend/internal/usecases"
)

type orderFixture struct {
	*accrualFixture
	uc *usecases.OrderUsecase
}

func newOrderFixture() *orderFixture {
	base := newAccrualFixture()
	return &orderFixture{
		accrualFixture: base,
		uc:             usecases.NewOrderUsecase(base.orderRepo, base.actorRepo, base.uc, base.uow),
	}
}

func TestOrderUsecase_Create_PartialAdvance(t *testing.T) {
	f := newOrderFixture()

	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Order")).Return(nil).Once()

	order, err := f.uc.Create(context.Background(), &entities.CreateOrderInput{
		PickupLocation:   "Salem",
		DeliveryLocation: "Chennai",
		Amount:           10000,
		Advance:          4000,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusPending, order.Status)
	assert.Equal(t, entities.PaymentStatusPartial, order.PaymentStatus)
	f.orderRepo.AssertNotCalled(t, "SetPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_Create_AdvanceExceedsAmount(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.Create(context.Background(), &entities.CreateOrderInput{
		PickupLocation:   "Salem",
		DeliveryLocation: "Chennai",
		Amount:           5000,
		Advance:          6000,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Create_UnknownReferralCode(t *testing.T) {
	f := newOrderFixture()

	f.actorRepo.On("GetByReferralCode", mock.Anything, "NOPE1234").Return(nil, domainerrors.ErrNotFound)

	_, err := f.uc.Create(context.Background(), &entities.CreateOrderInput{
		PickupLocation:   "Salem",
		DeliveryLocation: "Chennai",
		Amount:           5000,
		ReferralCode:     "NOPE1234",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestOrderUsecase_Create_FullAdvanceSettlesImmediately(t *testing.T) {
	f := newOrderFixture()
	referrerID := uuid.New()

	referrer := &entities.Actor{ID: referrerID, Role: entities.ActorRoleDriver, Tier: entities.TierElite}
	f.actorRepo.On("GetByReferralCode", mock.Anything, "TRK12345").Return(referrer, nil)

	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Order")).Return(nil).Once()
	f.orderRepo.On("SetPaymentStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), entities.PaymentStatusComplete).Return(nil).Once()
	// The accrual re-reads the order inside the same transaction.
	f.orderRepo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&entities.Order{
		ID:            uuid.New(),
		Amount:        5000,
		Advance:       5000,
		ReferralCode:  "TRK12345",
		PaymentStatus: entities.PaymentStatusComplete,
	}, nil)
	f.orderRepo.On("MarkReferralRewarded", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(true, nil).Once()
	f.ledgerRepo.On("ExistsBySource", mock.Anything, entities.SourceOrderCompletion, mock.AnythingOfType("string")).Return(false, nil)
	f.expectCredit(referrerID, entities.WalletDiesel, 100)

	order, err := f.uc.Create(context.Background(), &entities.CreateOrderInput{
		PickupLocation:   "Salem",
		DeliveryLocation: "Chennai",
		Amount:           5000,
		Advance:          5000,
		ReferralCode:     "TRK12345",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusComplete, order.PaymentStatus)
	f.walletRepo.AssertExpectations(t)
}

func TestOrderUsecase_RecordPayment_CompletionFiresAccrual(t *testing.T) {
	f := newOrderFixture()
	referrerID := uuid.New()
	orderID := uuid.New()

	order := &entities.Order{
		ID:            orderID,
		Amount:        10000,
		Advance:       4000,
		BalancePaid:   0,
		ReferralCode:  "TRK12345",
		Status:        entities.OrderStatusPending,
		PaymentStatus: entities.PaymentStatusPartial,
	}
	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(order, nil)
	f.orderRepo.On("AddBalancePayment", mock.Anything, orderID, int64(6000)).Return(nil).Once()
	f.orderRepo.On("SetPaymentStatus", mock.Anything, orderID, entities.PaymentStatusComplete).Return(nil).Once()
	f.actorRepo.On("GetByReferralCode", mock.Anything, "TRK12345").Return(&entities.Actor{
		ID: referrerID, Role: entities.ActorRoleDriver, Tier: entities.TierPremium,
	}, nil)
	f.orderRepo.On("MarkReferralRewarded", mock.Anything, orderID).Return(true, nil).Once()
	f.ledgerRepo.On("ExistsBySource", mock.Anything, entities.SourceOrderCompletion, orderID.String()).Return(false, nil)
	f.expectCredit(referrerID, entities.WalletDiesel, 100)

	updated, err := f.uc.RecordPayment(context.Background(), orderID, 6000)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusComplete, updated.PaymentStatus)
	assert.Equal(t, int64(10000), updated.TotalPaid())
	f.walletRepo.AssertExpectations(t)
}

func TestOrderUsecase_RecordPayment_PartialDoesNotSettle(t *testing.T) {
	f := newOrderFixture()
	orderID := uuid.New()

	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
		ID:            orderID,
		Amount:        10000,
		Advance:       2000,
		PaymentStatus: entities.PaymentStatusPartial,
	}, nil)
	f.orderRepo.On("AddBalancePayment", mock.Anything, orderID, int64(3000)).Return(nil)

	updated, err := f.uc.RecordPayment(context.Background(), orderID, 3000)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusPartial, updated.PaymentStatus)
	f.orderRepo.AssertNotCalled(t, "SetPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_RecordPayment_Overpay(t *testing.T) {
	f := newOrderFixture()
	orderID := uuid.New()

	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
		ID:            orderID,
		Amount:        10000,
		Advance:       4000,
		PaymentStatus: entities.PaymentStatusPartial,
	}, nil)

	_, err := f.uc.RecordPayment(context.Background(), orderID, 7000)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
	f.orderRepo.AssertNotCalled(t, "AddBalancePayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_RecordPayment_Gates(t *testing.T) {
	f := newOrderFixture()
	orderID := uuid.New()

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := f.uc.RecordPayment(context.Background(), orderID, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
	})

	t.Run("already fully paid", func(t *testing.T) {
		f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
			ID:            orderID,
			Amount:        5000,
			Advance:       5000,
			PaymentStatus: entities.PaymentStatusComplete,
		}, nil)

		_, err := f.uc.RecordPayment(context.Background(), orderID, 100)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyResolved)
	})
}

func TestOrderUsecase_Complete_IndependentOfPayment(t *testing.T) {
	f := newOrderFixture()
	orderID := uuid.New()

	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
		ID:            orderID,
		Amount:        10000,
		Advance:       4000,
		Status:        entities.OrderStatusAssigned,
		PaymentStatus: entities.PaymentStatusPartial,
	}, nil)
	f.orderRepo.On("MarkCompleted", mock.Anything, orderID).Return(nil).Once()

	order, err := f.uc.Complete(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusCompleted, order.Status)
	// Delivery never settles payments.
	f.orderRepo.AssertNotCalled(t, "SetPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Complete_Twice(t *testing.T) {
	f := newOrderFixture()
	orderID := uuid.New()

	f.orderRepo.On("GetByID", mock.Anything, orderID).Return(&entities.Order{
		ID:     orderID,
		Status: entities.OrderStatusCompleted,
	}, nil)

	_, err := f.uc.Complete(context.Background(), orderID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyResolved)
	f.orderRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything)
}
