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

// ActorRepositoryImpl implements ActorRepository
type ActorRepositoryImpl struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepositoryImpl {
	return &ActorRepositoryImpl{db: db}
}

func (r *ActorRepositoryImpl) Create(ctx context.Context, actor *entities.Actor) error {
	m := &models.Actor{
		ID:             actor.ID,
		FullName:       actor.FullName,
		Email:          actor.Email,
		MobileNumber:   actor.MobileNumber,
		PasswordHash:   actor.PasswordHash,
		Role:           string(actor.Role),
		Tier:           string(actor.Tier),
		District:       actor.District,
		VehicleType:    actor.VehicleType,
		WheelType:      actor.WheelType,
		ReferralCode:   actor.ReferralCode,
		ReferredBy:     null.NewString(actor.ReferredBy, actor.ReferredBy != ""),
		ApprovalStatus: string(actor.ApprovalStatus),
		ProofApproved:  actor.ProofApproved,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *ActorRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Actor, error) {
	var m models.Actor
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *ActorRepositoryImpl) GetByEmail(ctx context.Context, email string) (*entities.Actor, error) {
	var m models.Actor
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *ActorRepositoryImpl) GetByEmailOrMobile(ctx context.Context, email, mobile string) (*entities.Actor, error) {
	var m models.Actor
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("email = ? OR mobile_number = ?", email, mobile).
		First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *ActorRepositoryImpl) GetByReferralCode(ctx context.Context, code string) (*entities.Actor, error) {
	var m models.Actor
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("referral_code = ?", code).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *ActorRepositoryImpl) ListByApprovalStatus(ctx context.Context, status entities.ApprovalStatus, limit, offset int) ([]*entities.Actor, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.Actor{}).
		Where("approval_status = ?", status).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Actor
	if err := db.
		Where("approval_status = ?", status).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	actors := make([]*entities.Actor, 0, len(ms))
	for _, m := range ms {
		model := m
		actors = append(actors, r.toEntity(&model))
	}
	return actors, total, nil
}

// Approve is a conditional update: the row count tells the caller whether
// this call performed the pending -> approved flip.
func (r *ActorRepositoryImpl) Approve(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Actor{}).
		Where("id = ? AND approval_status = ?", id, entities.ApprovalStatusPending).
		Updates(map[string]interface{}{
			"approval_status": entities.ApprovalStatusApproved,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ActorRepositoryImpl) MarkPremiumGranted(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Actor{}).
		Where("id = ? AND premium_granted_at IS NULL", id).
		Updates(map[string]interface{}{
			"premium_granted_at": now,
			"updated_at":         now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ActorRepositoryImpl) SetProofApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.Actor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"proof_approved": approved,
			"updated_at":     time.Now(),
		}).Error
}

func (r *ActorRepositoryImpl) toEntity(m *models.Actor) *entities.Actor {
	return &entities.Actor{
		ID:               m.ID,
		FullName:         m.FullName,
		Email:            m.Email,
		MobileNumber:     m.MobileNumber,
		PasswordHash:     m.PasswordHash,
		Role:             entities.ActorRole(m.Role),
		Tier:             entities.ActorTier(m.Tier),
		District:         m.District,
		VehicleType:      m.VehicleType,
		WheelType:        m.WheelType,
		ReferralCode:     m.ReferralCode,
		ReferredBy:       m.ReferredBy.String,
		ApprovalStatus:   entities.ApprovalStatus(m.ApprovalStatus),
		PremiumGrantedAt: m.PremiumGrantedAt,
		ProofApproved:    m.ProofApproved,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
