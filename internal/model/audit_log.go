package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only trail of user actions. Rows are written
// asynchronously by a worker so a failed write never aborts the action
// it describes. Username is denormalized in case the user is deleted.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Username   string     `gorm:"type:varchar(64)"`
	Action     string     `gorm:"type:varchar(100);not null"`
	EntityType *string    `gorm:"type:varchar(50)"`
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	Details    *string
	IPAddress  *string   `gorm:"type:varchar(45)"`
	Timestamp  time.Time `gorm:"not null;index"`
}

// Notification targets one user; broadcasts create one row per admin.
// Type: "info" | "warning" | "danger"
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Message   string    `gorm:"not null"`
	Type      string    `gorm:"type:varchar(20);not null;default:'info'"`
	Link      *string   `gorm:"type:varchar(200)"`
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}
