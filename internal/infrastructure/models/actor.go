package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type Actor struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FullName         string      `gorm:"type:varchar(100);not null"`
	Email            string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	MobileNumber     string      `gorm:"type:varchar(20);uniqueIndex;not null"`
	PasswordHash     string      `gorm:"type:varchar(255);not null"`
	Role             string      `gorm:"type:varchar(20);not null;index"`
	Tier             string      `gorm:"type:varchar(20);not null"`
	District         string      `gorm:"type:varchar(100)"`
	VehicleType      string      `gorm:"type:varchar(50)"`
	WheelType        string      `gorm:"type:varchar(20)"`
	ReferralCode     string      `gorm:"type:varchar(16);uniqueIndex;not null"`
	ReferredBy       null.String `gorm:"type:varchar(16)"`
	ApprovalStatus   string      `gorm:"type:varchar(20);not null;index;default:'pending'"`
	PremiumGrantedAt *time.Time
	ProofApproved    bool `gorm:"default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}
