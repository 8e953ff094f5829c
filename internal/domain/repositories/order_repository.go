package repositories

import (
	"context"

	"github.com/google/uuid"
	"gotruck.backend/internal/domain/entities"
)

// OrderRepository interface
type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Order, error)
	List(ctx context.Context, limit, offset int) ([]*entities.Order, int64, error)
	AddBalancePayment(ctx context.Context, id uuid.UUID, amount int64) error
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	// MarkReferralRewarded flips referral_rewarded false -> true; false
	// return means the order's referral bonus was already credited.
	MarkReferralRewarded(ctx context.Context, id uuid.UUID) (bool, error)
}
