package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-lending/internal/domain/notification"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uint64, unreadOnly bool, limit int) ([]notification.Notification, error) {
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []notification.Notification
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

// MarkRead is idempotent; a notification of another recipient is not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID uint64, notificationID string) error {
	var n notification.Notification
	err := r.db.WithContext(ctx).
		Where("notification_id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&n).Error
	if err != nil {
		return notFound(err, notification.ErrNotFound)
	}
	if n.Read {
		return nil
	}
	return r.db.WithContext(ctx).Model(&n).Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) ExistsForLoanSince(ctx context.Context, recipientID, loanID uint64, kind notification.Kind, since time.Time) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&notification.Notification{}).
		Where("recipient_id = ? AND loan_id = ? AND kind = ? AND created_at >= ?", recipientID, loanID, kind, since.UTC()))
}
