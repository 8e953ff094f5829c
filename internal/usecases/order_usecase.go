package usecases

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gotruck.backend/internal/domain/entities"
	"gotruck.backend/internal/domain/errors"
	domainRepos "gotruck.backend/internal/domain/repositories"
	"gotruck.backend/pkg/logger"
	"gotruck.backend/pkg/utils"
)

// OrderUsecase manages freight orders and their payment lifecycle. It is the
// only producer of the order-completion accrual event: the referrer's diesel
// bonus fires when the order becomes fully paid, not when it is dispatched.
type OrderUsecase struct {
	orderRepo domainRepos.OrderRepository
	actorRepo domainRepos.ActorRepository
	accrual   *AccrualUsecase
	uow       domainRepos.UnitOfWork
}

func NewOrderUsecase(
	orderRepo domainRepos.OrderRepository,
	actorRepo domainRepos.ActorRepository,
	accrual *AccrualUsecase,
	uow domainRepos.UnitOfWork,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo: orderRepo,
		actorRepo: actorRepo,
		accrual:   accrual,
		uow:       uow,
	}
}

// Create records a new order. A referral code, when present, must resolve to
// a registered actor; the advance may already cover the full amount, in which
// case payment completion (and the accrual) happens immediately.
func (uc *OrderUsecase) Create(ctx context.Context, input *entities.CreateOrderInput) (*entities.Order, error) {
	if input.Advance > input.Amount {
		return nil, errors.InvalidAmount("advance exceeds the order amount")
	}

	if input.ReferralCode != "" {
		if _, err := uc.actorRepo.GetByReferralCode(ctx, input.ReferralCode); err != nil {
			return nil, errors.BadRequest("unknown referral code")
		}
	}

	var assignedTo *uuid.UUID
	if input.AssignedTo != "" {
		id, err := uuid.Parse(input.AssignedTo)
		if err != nil {
			return nil, errors.BadRequest("invalid assignee id")
		}
		assignedTo = &id
	}

	order := &entities.Order{
		ID:               utils.GenerateUUIDv7(),
		PickupLocation:   input.PickupLocation,
		DeliveryLocation: input.DeliveryLocation,
		MaterialType:     input.MaterialType,
		VehicleType:      input.VehicleType,
		WheelType:        input.WheelType,
		ContactNumber:    input.ContactNumber,
		Amount:           input.Amount,
		Advance:          input.Advance,
		ReferralCode:     input.ReferralCode,
		AssignedTo:       assignedTo,
		Status:           entities.OrderStatusPending,
		PaymentStatus:    entities.PaymentStatusPartial,
	}

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Create(txCtx, order); err != nil {
			return errors.InternalError(err)
		}
		if order.PaymentComplete() {
			return uc.settlePayment(txCtx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order created",
		zap.String("order_id", order.ID.String()),
		zap.Int64("amount", order.Amount),
		zap.Bool("referred", order.ReferralCode != ""),
	)
	return order, nil
}

// RecordPayment adds a balance payment to the order. The moment cumulative
// payments reach the order amount the payment status flips to completed and
// the referral diesel bonus is credited, all in one transaction.
func (uc *OrderUsecase) RecordPayment(ctx context.Context, orderID uuid.UUID, amount int64) (*entities.Order, error) {
	if amount <= 0 {
		return nil, errors.InvalidAmount("payment amount must be positive")
	}

	var order *entities.Order

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		order, err = uc.orderRepo.GetByID(txCtx, orderID)
		if err != nil {
			return errors.NotFound("order not found")
		}
		if order.PaymentStatus == entities.PaymentStatusComplete {
			return errors.AlreadyResolved("order is already fully paid")
		}
		if order.TotalPaid()+amount > order.Amount {
			return errors.InvalidAmount("payment exceeds the outstanding balance")
		}

		if err := uc.orderRepo.AddBalancePayment(txCtx, orderID, amount); err != nil {
			return errors.InternalError(err)
		}
		order.BalancePaid += amount

		if order.PaymentComplete() {
			return uc.settlePayment(txCtx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order payment recorded",
		zap.String("order_id", orderID.String()),
		zap.Int64("amount", amount),
		zap.String("payment_status", string(order.PaymentStatus)),
	)
	return order, nil
}

// Complete marks the order delivered. Delivery and payment are independent:
// completing an order does not settle payments or trigger accruals.
func (uc *OrderUsecase) Complete(ctx context.Context, orderID uuid.UUID) (*entities.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.NotFound("order not found")
	}
	if order.Status == entities.OrderStatusCompleted {
		return nil, errors.AlreadyResolved("order already completed")
	}
	if err := uc.orderRepo.MarkCompleted(ctx, orderID); err != nil {
		return nil, errors.InternalError(err)
	}
	order.Status = entities.OrderStatusCompleted

	logger.Info(ctx, "order completed", zap.String("order_id", orderID.String()))
	return order, nil
}

// Get fetches one order.
func (uc *OrderUsecase) Get(ctx context.Context, orderID uuid.UUID) (*entities.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.NotFound("order not found")
	}
	return order, nil
}

// List pages orders newest first.
func (uc *OrderUsecase) List(ctx context.Context, limit, offset int) ([]*entities.Order, int64, error) {
	return uc.orderRepo.List(ctx, limit, offset)
}

// settlePayment flips the payment status and fires the referral accrual.
// Runs inside the caller's transaction. An order without a referral code, or
// one whose code no longer resolves, settles without a credit.
func (uc *OrderUsecase) settlePayment(ctx context.Context, order *entities.Order) error {
	if err := uc.orderRepo.SetPaymentStatus(ctx, order.ID, entities.PaymentStatusComplete); err != nil {
		return errors.InternalError(err)
	}
	order.PaymentStatus = entities.PaymentStatusComplete

	if _, err := uc.accrual.AccrueOrderCompleted(ctx, order.ID); err != nil {
		if !stderrors.Is(err, errors.ErrNotEligible) {
			return err
		}
	}
	return nil
}
