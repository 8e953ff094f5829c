package repositories

import (
	"context"

	"github.com/google/uuid"
	"gotruck.backend/internal/domain/entities"
)

// ReferralRepository interface
type ReferralRepository interface {
	Create(ctx context.Context, edge *entities.ReferralEdge) error
	GetByReferredID(ctx context.Context, referredID uuid.UUID) (*entities.ReferralEdge, error)
	ListByReferrerID(ctx context.Context, referrerID uuid.UUID, limit, offset int) ([]*entities.ReferralEdge, int64, error)
	// MarkPaid flips paid false -> true and reports whether this call did
	// the flip; false means the reward was already paid. The reward amount
	// snapshotted at creation is never touched.
	MarkPaid(ctx context.Context, id uuid.UUID) (bool, error)
}
