package service

import (
	"context"
	"time"

	"github.com/qureshi08/NPF-1/internal/dto"
	"github.com/qureshi08/NPF-1/internal/model"
	"github.com/qureshi08/NPF-1/internal/repository"

	"github.com/google/uuid"
)

// AuditService reads the audit trail and a user's in-app notifications.
type AuditService interface {
	ListLogs(ctx context.Context, username, action string, page, limit int) ([]AuditLogEntry, int64, error)
	Notifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// AuditLogEntry is the read model for one audit row.
type AuditLogEntry struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Action     string  `json:"action"`
	EntityType *string `json:"entity_type"`
	EntityID   *string `json:"entity_id"`
	Details    *string `json:"details"`
	IPAddress  *string `json:"ip_address"`
	Timestamp  string  `json:"timestamp"`
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) ListLogs(ctx context.Context, username, action string, page, limit int) ([]AuditLogEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	logs, total, err := s.repo.ListLogs(ctx, username, action, page, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]AuditLogEntry, 0, len(logs))
	for i := range logs {
		out = append(out, auditLogToEntry(&logs[i]))
	}
	return out, total, nil
}

func (s *auditService) Notifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.ListNotifications(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		out = append(out, dto.NotificationResponse{
			ID:        n.ID.String(),
			Message:   n.Message,
			Type:      n.Type,
			Link:      n.Link,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *auditService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *auditService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func auditLogToEntry(l *model.AuditLog) AuditLogEntry {
	entry := AuditLogEntry{
		ID:         l.ID.String(),
		Username:   l.Username,
		Action:     l.Action,
		EntityType: l.EntityType,
		Details:    l.Details,
		IPAddress:  l.IPAddress,
		Timestamp:  l.Timestamp.Format(time.RFC3339),
	}
	if l.EntityID != nil {
		eid := l.EntityID.String()
		entry.EntityID = &eid
	}
	return entry
}
