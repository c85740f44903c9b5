package model

import (
	"time"

	"github.com/google/uuid"
)

// Production job statuses, in workshop order.
const (
	JobQueued     = "Queued"
	JobCutting    = "Cutting"
	JobAssembling = "Assembling"
	JobPolishing  = "Polishing"
	JobFinished   = "Finished"
)

// ProductionJob tracks a workshop build, optionally tied to an order.
type ProductionJob struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID        *uuid.UUID `gorm:"type:uuid;index"`
	ProductName    string     `gorm:"not null"`
	Description    *string
	StartDate      time.Time `gorm:"not null"`
	DueDate        *time.Time
	Status         string  `gorm:"type:varchar(20);not null;default:'Queued'"`
	AssignedWorker *string `gorm:"type:varchar(100)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Overdue reports whether the job has passed its due date without finishing.
func (j *ProductionJob) Overdue(now time.Time) bool {
	return j.DueDate != nil && j.Status != JobFinished && now.After(*j.DueDate)
}
