package repository

import (
	"context"

	"marketly/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	// WatchUnread blocks, delivering snapshots of the user's unread
	// notifications until ctx is done or fn returns an error.
	WatchUnread(ctx context.Context, userID string, fn func(NotificationSnapshot) error) error
}

type SearchLogRepository interface {
	Create(ctx context.Context, log *entity.SearchLog) error
}
