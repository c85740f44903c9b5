package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable furniture piece. StockQuantity never goes below
// zero: reservations are guarded at the SQL level (see ProductRepository).
type Product struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU           string     `gorm:"uniqueIndex;not null"`
	Name          string     `gorm:"index;not null"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index"`
	Description   *string
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StockQuantity int             `gorm:"not null;default:0"`
	ReorderLevel  int             `gorm:"not null;default:5"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`
	ImageURL      *string         `gorm:"type:varchar(200)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
