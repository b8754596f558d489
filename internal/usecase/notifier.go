package usecase

import (
	"context"
	"sync"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	ws "marketly/internal/infrastructure/websocket"
	"marketly/pkg/logger"
)

type UnreadCountEvent struct {
	Count int `json:"count"`
}

// Notifier gives connected users live unread badges and in-app banners.
// At most one subscription set is active per user.
type Notifier struct {
	convRepo         repository.ConversationRepository
	notificationRepo repository.NotificationRepository
	publisher        Publisher

	mu   sync.Mutex
	subs map[string]context.CancelFunc
}

func NewNotifier(
	convRepo repository.ConversationRepository,
	notificationRepo repository.NotificationRepository,
	publisher Publisher,
) *Notifier {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &Notifier{
		convRepo:         convRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
		subs:             make(map[string]context.CancelFunc),
	}
}

// TotalUnread sums the user's counter over every conversation.
func TotalUnread(conversations []*entity.Conversation, userID string) int {
	total := 0
	for _, c := range conversations {
		total += c.UnreadFor(userID)
	}
	return total
}

// SubscribeUnreadCount calls fn with the aggregate unread count on every
// change to the user's conversations. The returned func unsubscribes.
func (n *Notifier) SubscribeUnreadCount(ctx context.Context, userID string, fn func(int)) func() {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		err := n.convRepo.WatchByUserID(ctx, userID, func(conversations []*entity.Conversation) error {
			fn(TotalUnread(conversations, userID))
			return nil
		})
		if err != nil {
			logger.Warn("Unread count subscription for %s ended: %v", userID, err)
		}
	}()

	return cancel
}

// bannerFilter turns notification snapshots into banners. The first snapshot
// is the state at subscribe time and never produces banners.
type bannerFilter struct {
	primed bool
}

func (f *bannerFilter) Next(snap repository.NotificationSnapshot) []*entity.Notification {
	if !f.primed {
		f.primed = true
		return nil
	}

	var banners []*entity.Notification
	for _, ch := range snap.Changes {
		if ch.Kind == repository.ChangeAdded {
			banners = append(banners, ch.Notification)
		}
	}
	return banners
}

// SubscribeNotifications calls fn once for every unread notification that
// arrives after the subscription started.
func (n *Notifier) SubscribeNotifications(ctx context.Context, userID string, fn func(*entity.Notification)) func() {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		filter := &bannerFilter{}
		err := n.notificationRepo.WatchUnread(ctx, userID, func(snap repository.NotificationSnapshot) error {
			for _, banner := range filter.Next(snap) {
				fn(banner)
			}
			return nil
		})
		if err != nil {
			logger.Warn("Notification subscription for %s ended: %v", userID, err)
		}
	}()

	return cancel
}

// Start replaces any active subscriptions for userID with fresh ones that
// publish unread_count and notification_banner events.
func (n *Notifier) Start(userID string) {
	ctx, cancel := context.WithCancel(context.Background())

	n.mu.Lock()
	if prev, ok := n.subs[userID]; ok {
		prev()
	}
	n.subs[userID] = cancel
	n.mu.Unlock()

	n.SubscribeUnreadCount(ctx, userID, func(count int) {
		n.publisher.Publish(userID, ws.EventUnreadCount, UnreadCountEvent{Count: count})
	})
	n.SubscribeNotifications(ctx, userID, func(notification *entity.Notification) {
		n.publisher.Publish(userID, ws.EventNotificationBanner, notification)
	})

	logger.Debug("Notifier started for %s", userID)
}

func (n *Notifier) Stop(userID string) {
	n.mu.Lock()
	cancel, ok := n.subs[userID]
	delete(n.subs, userID)
	n.mu.Unlock()

	if ok {
		cancel()
		logger.Debug("Notifier stopped for %s", userID)
	}
}

// Active reports whether userID currently has subscriptions.
func (n *Notifier) Active(userID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.subs[userID]
	return ok
}

func (n *Notifier) StopAll() {
	n.mu.Lock()
	subs := n.subs
	n.subs = make(map[string]context.CancelFunc)
	n.mu.Unlock()

	for _, cancel := range subs {
		cancel()
	}
}
