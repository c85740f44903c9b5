package worker

// notify_worker.go
// Creates in-app notification rows from QueueNotify. A broadcast targets
// every active admin: one row per admin, so each tracks read state alone.

import (
	"context"
	"encoding/json"

	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotifyJobPayload is the job envelope sent to QueueNotify.
// UserID targets one user; Broadcast fans out to all active admins instead.
type NotifyJobPayload struct {
	UserID    string  `json:"user_id"`
	Broadcast bool    `json:"broadcast"`
	Message   string  `json:"message"`
	Type      string  `json:"type"` // info | warning | danger
	Link      *string `json:"link"`
}

// NotifyWorker writes in-app notifications.
type NotifyWorker struct {
	auditRepo repository.AuditRepository
	userRepo  repository.UserRepository
}

func NewNotifyWorker(auditRepo repository.AuditRepository, userRepo repository.UserRepository) *NotifyWorker {
	return &NotifyWorker{auditRepo: auditRepo, userRepo: userRepo}
}

// Process creates the notification row(s).
func (w *NotifyWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload NotifyJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Type == "" {
		payload.Type = "info"
	}

	if payload.Broadcast {
		adminIDs, err := w.userRepo.AdminIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range adminIDs {
			n := model.Notification{
				UserID:  id,
				Message: payload.Message,
				Type:    payload.Type,
				Link:    payload.Link,
			}
			if err := w.auditRepo.CreateNotification(ctx, &n); err != nil {
				log.Error().Err(err).Str("user_id", id.String()).Msg("notify_worker: broadcast row failed")
			}
		}
		return nil
	}

	uid, err := uuid.Parse(payload.UserID)
	if err != nil {
		log.Warn().Str("user_id", payload.UserID).Msg("notify_worker: invalid user id — skipping")
		return nil
	}
	return w.auditRepo.CreateNotification(ctx, &model.Notification{
		UserID:  uid,
		Message: payload.Message,
		Type:    payload.Type,
		Link:    payload.Link,
	})
}
