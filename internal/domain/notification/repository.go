package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// Newest first; limit <= 0 means no limit.
	ListByRecipient(ctx context.Context, recipientID uint64, unreadOnly bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID uint64) (int64, error)
	MarkRead(ctx context.Context, recipientID uint64, notificationID string) error
	MarkAllRead(ctx context.Context, recipientID uint64) (int64, error)
	ExistsForLoanSince(ctx context.Context, recipientID, loanID uint64, kind Kind, since time.Time) (bool, error)
}
