package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
)

// Payment statuses, derived from cumulative payments vs TotalAmount.
const (
	PaymentUnpaid  = "Unpaid"
	PaymentPartial = "Partial"
	PaymentPaid    = "Paid"
)

// Order aggregates line items and payments for one customer purchase.
// TotalAmount is derived: after every committed mutation it equals the
// sum of its items' subtotals.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	OrderDate     time.Time       `gorm:"not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'Pending'"`
	PaymentStatus string          `gorm:"type:varchar(20);not null;default:'Unpaid'"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod *string         `gorm:"type:varchar(50)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments []Payment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a snapshot of one product sold at a fixed unit price.
// UnitPrice and Subtotal are captured at sale time and never updated.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time

	Order   *Order   `gorm:"foreignKey:OrderID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}

// Payment records one payment against an order. Amount is always > 0;
// the cumulative sum drives the order's PaymentStatus.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method    string          `gorm:"type:varchar(50);not null"`
	Notes     *string
	CreatedAt time.Time
}
