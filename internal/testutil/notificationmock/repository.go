package notificationmock

import (
	"context"
	"time"

	domain "campus-lending/internal/domain/notification"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, n *domain.Notification) error
	ListByRecipientFn    func(ctx context.Context, recipientID uint64, unreadOnly bool, limit int) ([]domain.Notification, error)
	CountUnreadFn        func(ctx context.Context, recipientID uint64) (int64, error)
	MarkReadFn           func(ctx context.Context, recipientID uint64, notificationID string) error
	MarkAllReadFn        func(ctx context.Context, recipientID uint64) (int64, error)
	ExistsForLoanSinceFn func(ctx context.Context, recipientID, loanID uint64, kind domain.Kind, since time.Time) (bool, error)
}

func (m *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *Repo) ListByRecipient(ctx context.Context, recipientID uint64, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if m.ListByRecipientFn != nil {
		return m.ListByRecipientFn(ctx, recipientID, unreadOnly, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	if m.CountUnreadFn != nil {
		return m.CountUnreadFn(ctx, recipientID)
	}
	return 0, context.Canceled
}

func (m *Repo) MarkRead(ctx context.Context, recipientID uint64, notificationID string) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, recipientID, notificationID)
	}
	return nil
}

func (m *Repo) MarkAllRead(ctx context.Context, recipientID uint64) (int64, error) {
	if m.MarkAllReadFn != nil {
		return m.MarkAllReadFn(ctx, recipientID)
	}
	return 0, nil
}

func (m *Repo) ExistsForLoanSince(ctx context.Context, recipientID, loanID uint64, kind domain.Kind, since time.Time) (bool, error) {
	if m.ExistsForLoanSinceFn != nil {
		return m.ExistsForLoanSinceFn(ctx, recipientID, loanID, kind, since)
	}
	return false, context.Canceled
}
