package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type Order struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PickupLocation   string      `gorm:"type:varchar(255);not null"`
	DeliveryLocation string      `gorm:"type:varchar(255);not null"`
	MaterialType     string      `gorm:"type:varchar(100)"`
	VehicleType      string      `gorm:"type:varchar(50)"`
	WheelType        string      `gorm:"type:varchar(20)"`
	ContactNumber    string      `gorm:"type:varchar(20)"`
	Amount           int64       `gorm:"not null"`
	Advance          int64       `gorm:"default:0"`
	BalancePaid      int64       `gorm:"default:0"`
	ReferralCode     null.String `gorm:"type:varchar(16);index"`
	AssignedTo       *uuid.UUID  `gorm:"type:uuid;index"`
	Status           string      `gorm:"type:varchar(20);not null;index"`
	PaymentStatus    string      `gorm:"type:varchar(20);not null;index"`
	ReferralRewarded bool        `gorm:"not null;default:false"`
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}
