package repository

import (
	"context"

	"github.com/qureshi08/NPF-1/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRepository persists audit trail rows and in-app notifications.
// Both are written by background workers, never on the request path.
type AuditRepository interface {
	CreateLog(ctx context.Context, l *model.AuditLog) error
	// ListLogs filters by username and action when non-empty.
	ListLogs(ctx context.Context, username, action string, page, limit int) ([]model.AuditLog, int64, error)

	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) CreateLog(ctx context.Context, l *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *auditRepo) ListLogs(ctx context.Context, username, action string, page, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if username != "" {
		q = q.Where("username = ?", username)
	}
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("timestamp DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, total, err
}

func (r *auditRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *auditRepo) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	var notifications []model.Notification
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = false")
	}
	err := q.Order("created_at DESC").Limit(100).Find(&notifications).Error
	return notifications, err
}

func (r *auditRepo) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}

func (r *auditRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Update("read", true).Error
}
