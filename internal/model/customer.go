package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer accumulates loyalty points as order items are added.
// Points are only ever incremented — removals do not claw them back.
type Customer struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	Phone         *string   `gorm:"type:varchar(20)"`
	Email         *string   `gorm:"type:varchar(120)"`
	Address       *string   `gorm:"type:varchar(200)"`
	LoyaltyPoints int       `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Orders []Order `gorm:"foreignKey:CustomerID"`
}
