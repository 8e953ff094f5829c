package repositories

import (
	"context"

	"github.com/google/uuid"
	"gotruck.backend/internal/domain/entities"
)

// ActorRepository interface
type ActorRepository interface {
	Create(ctx context.Context, actor *entities.Actor) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Actor, error)
	GetByEmail(ctx context.Context, email string) (*entities.Actor, error)
	GetByEmailOrMobile(ctx context.Context, email, mobile string) (*entities.Actor, error)
	GetByReferralCode(ctx context.Context, code string) (*entities.Actor, error)
	ListByApprovalStatus(ctx context.Context, status entities.ApprovalStatus, limit, offset int) ([]*entities.Actor, int64, error)
	// Approve flips approval_status pending -> approved and reports whether
	// this call performed the flip.
	Approve(ctx context.Context, id uuid.UUID) (bool, error)
	// MarkPremiumGranted stamps premium_granted_at once; returns false when
	// the grant was already recorded.
	MarkPremiumGranted(ctx context.Context, id uuid.UUID) (bool, error)
	SetProofApproved(ctx context.Context, id uuid.UUID, approved bool) error
}
