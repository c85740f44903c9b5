package worker

// audit_worker.go
// Persists audit trail rows from QueueAudit. Audit writes are best-effort
// and never block or abort the action they describe.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"

	"github.com/google/uuid"
)

// AuditJobPayload is the job envelope sent to QueueAudit.
type AuditJobPayload struct {
	UserID     string  `json:"user_id"`
	Username   string  `json:"username"`
	Action     string  `json:"action"`
	EntityType *string `json:"entity_type"`
	EntityID   *string `json:"entity_id"`
	Details    *string `json:"details"`
	IPAddress  *string `json:"ip_address"`
	Timestamp  string  `json:"timestamp"` // RFC 3339; empty = now
}

// AuditWorker writes audit log rows. Username is denormalized at write
// time so the trail stays readable after the account is deleted.
type AuditWorker struct {
	repo     repository.AuditRepository
	userRepo repository.UserRepository
}

func NewAuditWorker(repo repository.AuditRepository, userRepo repository.UserRepository) *AuditWorker {
	return &AuditWorker{repo: repo, userRepo: userRepo}
}

// Process persists one audit entry.
func (w *AuditWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload AuditJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}

	entry := model.AuditLog{
		Username:   payload.Username,
		Action:     payload.Action,
		EntityType: payload.EntityType,
		Details:    payload.Details,
		IPAddress:  payload.IPAddress,
		Timestamp:  time.Now().UTC(),
	}
	if uid, err := uuid.Parse(payload.UserID); err == nil {
		entry.UserID = &uid
		if entry.Username == "" {
			if u, err := w.userRepo.FindByID(ctx, uid); err == nil {
				entry.Username = u.Username
			}
		}
	}
	if payload.EntityID != nil {
		if eid, err := uuid.Parse(*payload.EntityID); err == nil {
			entry.EntityID = &eid
		}
	}
	if payload.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, payload.Timestamp); err == nil {
			entry.Timestamp = ts
		}
	}

	return w.repo.CreateLog(ctx, &entry)
}
