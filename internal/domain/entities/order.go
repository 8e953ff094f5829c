package entities

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the dispatch status of a freight order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusCompleted OrderStatus = "completed"
)

// PaymentStatus tracks whether an order's cumulative payments reached its total
type PaymentStatus string

const (
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusComplete PaymentStatus = "completed"
)

// Order carries the money-relevant fields of a freight order. Payment is
// complete when Advance+BalancePaid >= Amount; at that point, if a referral
// code is attached, the order-completion accrual credits the referrer once
// (ReferralRewarded is the idempotency gate).
type Order struct {
	ID               uuid.UUID     `json:"id"`
	PickupLocation   string        `json:"pickupLocation"`
	DeliveryLocation string        `json:"deliveryLocation"`
	MaterialType     string        `json:"materialType,omitempty"`
	VehicleType      string        `json:"vehicleType,omitempty"`
	WheelType        string        `json:"wheelType,omitempty"`
	ContactNumber    string        `json:"contactNumber,omitempty"`
	Amount           int64         `json:"amount"`
	Advance          int64         `json:"advance"`
	BalancePaid      int64         `json:"balancePaid"`
	ReferralCode     string        `json:"referralCode,omitempty"`
	AssignedTo       *uuid.UUID    `json:"assignedTo,omitempty"`
	Status           OrderStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	ReferralRewarded bool          `json:"referralRewarded"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	DeletedAt        *time.Time    `json:"-"`
}

// TotalPaid is the sum of the advance and balance payments received so far.
func (o *Order) TotalPaid() int64 {
	return o.Advance + o.BalancePaid
}

// PaymentComplete reports whether payments cover the order amount.
func (o *Order) PaymentComplete() bool {
	return o.TotalPaid() >= o.Amount
}

// CreateOrderInput represents input for creating an order
type CreateOrderInput struct {
	PickupLocation   string `json:"pickupLocation" binding:"required"`
	DeliveryLocation string `json:"deliveryLocation" binding:"required"`
	MaterialType     string `json:"materialType"`
	VehicleType      string `json:"vehicleType"`
	WheelType        string `json:"wheelType"`
	ContactNumber    string `json:"contactNumber"`
	Amount           int64  `json:"amount" binding:"required,gt=0"`
	Advance          int64  `json:"advance" binding:"gte=0"`
	ReferralCode     string `json:"referralCode"`
	AssignedTo       string `json:"assignedTo"`
}
