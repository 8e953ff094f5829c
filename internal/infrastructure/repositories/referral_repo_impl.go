package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gotruck.backend/internal/domain/entities"
	"gotruck.backend/internal/infrastructure/models"
)

// ReferralRepositoryImpl implements ReferralRepository
type ReferralRepositoryImpl struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepositoryImpl {
	return &ReferralRepositoryImpl{db: db}
}

func (r *ReferralRepositoryImpl) Create(ctx context.Context, edge *entities.ReferralEdge) error {
	m := &models.ReferralEdge{
		ID:           edge.ID,
		ReferrerID:   edge.ReferrerID,
		ReferredID:   edge.ReferredID,
		ReferralCode: edge.ReferralCode,
		RewardAmount: edge.RewardAmount,
		Paid:         edge.Paid,
		CreatedAt:    time.Now(),
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *ReferralRepositoryImpl) GetByReferredID(ctx context.Context, referredID uuid.UUID) (*entities.ReferralEdge, error) {
	var m models.ReferralEdge
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("referred_id = ?", referredID).
		First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *ReferralRepositoryImpl) ListByReferrerID(ctx context.Context, referrerID uuid.UUID, limit, offset int) ([]*entities.ReferralEdge, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.ReferralEdge{}).
		Where("referrer_id = ?", referrerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.ReferralEdge
	if err := db.
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	edges := make([]*entities.ReferralEdge, 0, len(ms))
	for _, m := range ms {
		model := m
		edges = append(edges, r.toEntity(&model))
	}
	return edges, total, nil
}

// MarkPaid flips the paid flag conditionally; a false return means another
// call already settled this edge and the reward must not be credited again.
// reward_amount stays as written at registration.
func (r *ReferralRepositoryImpl) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.ReferralEdge{}).
		Where("id = ? AND paid = ?", id, false).
		Updates(map[string]interface{}{
			"paid":    true,
			"paid_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ReferralRepositoryImpl) toEntity(m *models.ReferralEdge) *entities.ReferralEdge {
	return &entities.ReferralEdge{
		ID:           m.ID,
		ReferrerID:   m.ReferrerID,
		ReferredID:   m.ReferredID,
		ReferralCode: m.ReferralCode,
		RewardAmount: m.RewardAmount,
		Paid:         m.Paid,
		PaidAt:       m.PaidAt,
		CreatedAt:    m.CreatedAt,
	}
}
