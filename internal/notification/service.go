package notification

import (
	"context"
	"sort"
	"time"

	"UniProjectHub/internal/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService owns the per-user notification feed.
type NotificationService struct {
	repo *NotificationRepository
}

func NewNotificationService(repo *NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify creates a feed entry for a recipient. Event producers (project
// engine, reminder scheduler) treat this as best-effort: they log failures
// and continue.
func (s *NotificationService) Notify(ctx context.Context, n *Notification) error {
	if n.RecipientID == "" || n.Title == "" {
		return apperr.Validation("notification requires a recipient and a title")
	}
	if n.Type == "" {
		n.Type = TypeInfo
	}
	if n.Category == "" {
		n.Category = CategorySystem
	}
	n.IsRead = false
	n.CreatedAt = time.Now()
	return s.repo.CreateNotification(ctx, n)
}

// ListNotifications returns the recipient's feed, newest first. Ordering is
// applied here after a full fetch; the store's ordering is never relied on.
func (s *NotificationService) ListNotifications(ctx context.Context, recipientID string) ([]*Notification, error) {
	notifications, err := s.repo.FindByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id primitive.ObjectID, recipientID string) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

// MarkAllRead flips every unread entry. When nothing is unread it returns
// without issuing a write, and calling it again is a no-op.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id primitive.ObjectID, recipientID string) error {
	return s.repo.DeleteNotification(ctx, id, recipientID)
}
