package usecase

import (
	"context"
	"errors"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/internal/domain/service"
	"marketly/pkg/logger"
)

const defaultNotificationLimit = 50

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	push             service.PushService
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	push service.PushService,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		push:             push,
	}
}

// Notify stores a feed entry and mirrors it to the user's device. The push is
// best-effort; only the feed write can fail the call.
func (uc *NotificationUseCase) Notify(ctx context.Context, n *entity.Notification) error {
	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	data := map[string]string{"type": n.Type, "notificationId": n.ID}
	if n.ListingID != "" {
		data["listingId"] = n.ListingID
	}
	if n.ConversationID != "" {
		data["conversationId"] = n.ConversationID
	}
	uc.Push(ctx, n.UserID, service.PushMessage{Title: n.Title, Body: n.Body, Data: data})
	return nil
}

// Push delivers to the user's registered device, if any. A token the provider
// rejects is removed from the profile.
func (uc *NotificationUseCase) Push(ctx context.Context, userID string, msg service.PushMessage) {
	if uc.push == nil {
		return
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.LogBackgroundError("push_lookup", userID, err)
		return
	}
	if user.PushToken == "" {
		return
	}

	err = uc.push.Send(ctx, user.PushToken, msg)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPushTokenInvalid):
		logger.Info("Clearing stale push token for user %s", userID)
		if err := uc.userRepo.SetPushToken(ctx, userID, ""); err != nil {
			logger.LogBackgroundError("push_token_clear", userID, err)
		}
	default:
		logger.LogBackgroundError("push_send", userID, err)
	}
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	if limit <= 0 || limit > defaultNotificationLimit {
		limit = defaultNotificationLimit
	}
	return uc.notificationRepo.ListByUser(ctx, userID, limit)
}

func (uc *NotificationUseCase) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	return uc.notificationRepo.MarkRead(ctx, userID, notificationID)
}

func (uc *NotificationUseCase) MarkAllNotificationsRead(ctx context.Context, userID string) (int, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}
