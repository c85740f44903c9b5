package model

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	ContactPerson *string   `gorm:"type:varchar(100)"`
	Phone         *string   `gorm:"type:varchar(20)"`
	Email         *string   `gorm:"type:varchar(120)"`
	Address       *string   `gorm:"type:varchar(200)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Products []Product `gorm:"foreignKey:SupplierID"`
}
