package model

import "github.com/google/uuid"

// Category groups products and raw materials.
// Type: "Product" | "Material"
type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"not null"`
	Type string    `gorm:"type:varchar(20);not null;default:'Product'"`

	Products []Product `gorm:"foreignKey:CategoryID"`
}

func (Category) TableName() string { return "categories" }
