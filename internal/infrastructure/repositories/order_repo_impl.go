package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gotruck.backend/internal/domain/entities"
	"gotruck.backend/internal/infrastructure/models"
)

// OrderRepositoryImpl implements OrderRepository
type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepositoryImpl {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *entities.Order) error {
	m := &models.Order{
		ID:               order.ID,
		PickupLocation:   order.PickupLocation,
		DeliveryLocation: order.DeliveryLocation,
		MaterialType:     order.MaterialType,
		VehicleType:      order.VehicleType,
		WheelType:        order.WheelType,
		ContactNumber:    order.ContactNumber,
		Amount:           order.Amount,
		Advance:          order.Advance,
		BalancePaid:      order.BalancePaid,
		ReferralCode:     null.NewString(order.ReferralCode, order.ReferralCode != ""),
		AssignedTo:       order.AssignedTo,
		Status:           string(order.Status),
		PaymentStatus:    string(order.PaymentStatus),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *OrderRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	var m models.Order
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *OrderRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*entities.Order, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Order
	if err := db.
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*entities.Order, 0, len(ms))
	for _, m := range ms {
		model := m
		orders = append(orders, r.toEntity(&model))
	}
	return orders, total, nil
}

func (r *OrderRepositoryImpl) AddBalancePayment(ctx context.Context, id uuid.UUID, amount int64) error {
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance_paid": gorm.Expr("balance_paid + ?", amount),
			"updated_at":   time.Now(),
		}).Error
}

func (r *OrderRepositoryImpl) SetPaymentStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus) error {
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": status,
			"updated_at":     time.Now(),
		}).Error
}

func (r *OrderRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.OrderStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkReferralRewarded gates the one-time order-completion credit: reissuing
// the same order event sees zero rows and skips the append.
func (r *OrderRepositoryImpl) MarkReferralRewarded(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND referral_rewarded = ?", id, false).
		Updates(map[string]interface{}{
			"referral_rewarded": true,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderRepositoryImpl) toEntity(m *models.Order) *entities.Order {
	return &entities.Order{
		ID:               m.ID,
		PickupLocation:   m.PickupLocation,
		DeliveryLocation: m.DeliveryLocation,
		MaterialType:     m.MaterialType,
		VehicleType:      m.VehicleType,
		WheelType:        m.WheelType,
		ContactNumber:    m.ContactNumber,
		Amount:           m.Amount,
		Advance:          m.Advance,
		BalancePaid:      m.BalancePaid,
		ReferralCode:     m.ReferralCode.String,
		AssignedTo:       m.AssignedTo,
		Status:           entities.OrderStatus(m.Status),
		PaymentStatus:    entities.PaymentStatus(m.PaymentStatus),
		ReferralRewarded: m.ReferralRewarded,
		CompletedAt:      m.CompletedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
