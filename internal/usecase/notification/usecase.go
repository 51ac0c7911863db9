// Package notification serves a user's in-app notifications.
package notification

import (
	"context"

	"go.uber.org/zap"

	domain "campus-lending/internal/domain/notification"
	"campus-lending/internal/domain/user"
)

// DefaultListLimit caps a listing when the caller does not.
const DefaultListLimit = 50

// Counter caches unread counts per user.
type Counter interface {
	Get(ctx context.Context, userID uint64) (int64, bool, error)
	Set(ctx context.Context, userID uint64, n int64) error
	Invalidate(ctx context.Context, userIDs ...uint64) error
}

type Usecase struct {
	repo  domain.Repository
	cache Counter
	log   *zap.Logger
}

// NewUsecase: cache may be nil, counts are then always read from repo.
func NewUsecase(repo domain.Repository, cache Counter, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, cache: cache, log: log}
}

func (u *Usecase) List(ctx context.Context, p user.Principal, unreadOnly bool, limit int) ([]NotificationDTO, error) {
	if p.UserID == 0 {
		return nil, user.ErrForbidden
	}
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	ns, err := u.repo.ListByRecipient(ctx, p.UserID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	out := make([]NotificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, NotificationDTO{
			NotificationID: n.NotificationID,
			Kind:           string(n.Kind),
			Message:        n.Message,
			URL:            n.URL,
			Read:           n.Read,
			CreatedAt:      n.CreatedAt,
		})
	}
	return out, nil
}

// UnreadCount is cache-aside: a cache failure falls back to the database.
func (u *Usecase) UnreadCount(ctx context.Context, p user.Principal) (int64, error) {
	if p.UserID == 0 {
		return 0, user.ErrForbidden
	}
	if u.cache != nil {
		n, ok, err := u.cache.Get(ctx, p.UserID)
		if err != nil {
			u.log.Warn("unread cache read failed", zap.Uint64("user", p.UserID), zap.Error(err))
		} else if ok {
			return n, nil
		}
	}
	n, err := u.repo.CountUnread(ctx, p.UserID)
	if err != nil {
		return 0, err
	}
	if u.cache != nil {
		if err := u.cache.Set(ctx, p.UserID, n); err != nil {
			u.log.Warn("unread cache write failed", zap.Uint64("user", p.UserID), zap.Error(err))
		}
	}
	return n, nil
}

func (u *Usecase) MarkRead(ctx context.Context, p user.Principal, notificationID string) error {
	if p.UserID == 0 {
		return user.ErrForbidden
	}
	if err := u.repo.MarkRead(ctx, p.UserID, notificationID); err != nil {
		return err
	}
	u.invalidate(ctx, p.UserID)
	return nil
}

// MarkAllRead returns how many notifications changed.
func (u *Usecase) MarkAllRead(ctx context.Context, p user.Principal) (int64, error) {
	if p.UserID == 0 {
		return 0, user.ErrForbidden
	}
	n, err := u.repo.MarkAllRead(ctx, p.UserID)
	if err != nil {
		return 0, err
	}
	u.invalidate(ctx, p.UserID)
	return n, nil
}

func (u *Usecase) invalidate(ctx context.Context, userID uint64) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx, userID); err != nil {
		u.log.Warn("unread cache invalidation failed", zap.Uint64("user", userID), zap.Error(err))
	}
}
