package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) notifications() *firestore.CollectionRef {
	return r.client.Collection(collectionNotifications)
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if _, err := r.notifications().Doc(n.ID).Set(ctx, n); err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	query := r.notifications().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	list, err := decodeAll[entity.Notification](query.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list notifications", err)
	}
	return list, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	ref := r.notifications().Doc(id)

	doc, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to get notification", err)
	}

	var n entity.Notification
	if err := doc.DataTo(&n); err != nil {
		return errors.Internal("Failed to parse notification data", err)
	}
	if n.UserID != userID {
		return errors.NotFound("Notification", nil)
	}
	if n.Read {
		return nil
	}

	if _, err := ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}}); err != nil {
		return errors.Internal("Failed to mark notification as read", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) unreadQuery(userID string) firestore.Query {
	return r.notifications().
		Where("userId", "==", userID).
		Where("read", "==", false)
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	docs, err := r.unreadQuery(userID).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query unread notifications", err)
	}

	refs := make([]*firestore.DocumentRef, 0, len(docs))
	for _, doc := range docs {
		refs = append(refs, doc.Ref)
	}

	n, err := bulkUpdate(ctx, r.client, refs, []firestore.Update{{Path: "read", Value: true}})
	if err != nil {
		return n, errors.Internal("Failed to mark notifications as read", err)
	}
	return n, nil
}

func (r *firestoreNotificationRepository) WatchUnread(ctx context.Context, userID string, fn func(repository.NotificationSnapshot) error) error {
	it := r.unreadQuery(userID).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if watchStopped(ctx, err) {
				return nil
			}
			return errors.Internal("Notification subscription failed", err)
		}

		current, err := decodeAll[entity.Notification](snap.Documents)
		if err != nil {
			return errors.Internal("Failed to parse notification snapshot", err)
		}

		changes := make([]repository.NotificationChange, 0, len(snap.Changes))
		for _, ch := range snap.Changes {
			var n entity.Notification
			if err := ch.Doc.DataTo(&n); err != nil {
				continue
			}
			changes = append(changes, repository.NotificationChange{
				Kind:         changeKind(ch.Kind),
				Notification: &n,
			})
		}

		if err := fn(repository.NotificationSnapshot{Notifications: current, Changes: changes}); err != nil {
			return err
		}
	}
}

func changeKind(k firestore.DocumentChangeKind) repository.ChangeKind {
	switch k {
	case firestore.DocumentAdded:
		return repository.ChangeAdded
	case firestore.DocumentRemoved:
		return repository.ChangeRemoved
	}
	return repository.ChangeModified
}

type firestoreSearchLogRepository struct {
	client *firestore.Client
}

func NewFirestoreSearchLogRepository(client *firestore.Client) repository.SearchLogRepository {
	return &firestoreSearchLogRepository{client: client}
}

func (r *firestoreSearchLogRepository) Create(ctx context.Context, log *entity.SearchLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	if _, err := r.client.Collection(collectionSearchLogs).Doc(log.ID).Set(ctx, log); err != nil {
		return errors.Internal("Failed to write search log", err)
	}
	return nil
}
