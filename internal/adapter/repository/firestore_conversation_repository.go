package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) conversations() *firestore.CollectionRef {
	return r.client.Collection(collectionConversations)
}

func (r *firestoreConversationRepository) messages(conversationID string) *firestore.CollectionRef {
	return r.conversations().Doc(conversationID).Collection(collectionMessages)
}

func (r *firestoreConversationRepository) Upsert(ctx context.Context, conversation *entity.Conversation) (bool, error) {
	ref := r.conversations().Doc(conversation.ID)

	_, err := ref.Create(ctx, conversation)
	if err == nil {
		return true, nil
	}
	if !isAlreadyExists(err) {
		return false, errors.Internal("Failed to create conversation", err)
	}

	// Existing thread: refresh identity and listing metadata only.
	_, err = ref.Set(ctx, map[string]interface{}{
		"participants": conversation.Participants,
		"buyerId":      conversation.BuyerID,
		"sellerId":     conversation.SellerID,
		"listingId":    conversation.ListingID,
		"listingTitle": conversation.ListingTitle,
		"listingPhoto": conversation.ListingPhoto,
	}, firestore.MergeAll)
	if err != nil {
		return false, errors.Internal("Failed to update conversation", err)
	}
	return false, nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.conversations().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	return &conversation, nil
}

func (r *firestoreConversationRepository) participantQuery(userID string) firestore.Query {
	return r.conversations().
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc)
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Conversation, error) {
	query := r.participantQuery(userID)
	if limit > 0 {
		query = query.Limit(limit)
	}

	conversations, err := decodeAll[entity.Conversation](query.Documents(ctx))
	if err != nil {
		logger.Error("Firestore error listing conversations for %s: %v", userID, err)
		return nil, errors.Internal("Failed to list conversations", err)
	}
	return conversations, nil
}

func (r *firestoreConversationRepository) ApplyMessageSummary(ctx context.Context, conversationID string, s repository.MessageSummary) error {
	_, err := r.conversations().Doc(conversationID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: s.Text},
		{Path: "lastMessageAt", Value: s.At},
		{Path: "lastSenderId", Value: s.SenderID},
		{FieldPath: firestore.FieldPath{"unreadCount", s.SenderID}, Value: 0},
		{FieldPath: firestore.FieldPath{"unreadCount", s.RecipientID}, Value: firestore.Increment(1)},
		{FieldPath: firestore.FieldPath{"lastReadAt", s.SenderID}, Value: s.At},
		{Path: "updatedAt", Value: s.At},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Conversation", err)
		}
		return errors.Internal("Failed to update conversation summary", err)
	}
	return nil
}

func (r *firestoreConversationRepository) MarkRead(ctx context.Context, conversationID, userID string, at time.Time) error {
	_, err := r.conversations().Doc(conversationID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unreadCount", userID}, Value: 0},
		{FieldPath: firestore.FieldPath{"lastReadAt", userID}, Value: at},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Conversation", err)
		}
		return errors.Internal("Failed to mark conversation as read", err)
	}
	return nil
}

func (r *firestoreConversationRepository) WatchByUserID(ctx context.Context, userID string, fn func([]*entity.Conversation) error) error {
	it := r.participantQuery(userID).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if watchStopped(ctx, err) {
				return nil
			}
			return errors.Internal("Conversation subscription failed", err)
		}

		conversations, err := decodeAll[entity.Conversation](snap.Documents)
		if err != nil {
			return errors.Internal("Failed to parse conversation snapshot", err)
		}
		if err := fn(conversations); err != nil {
			return err
		}
	}
}

func (r *firestoreConversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := r.messages(message.ConversationID).Doc(message.ID).Create(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *firestoreConversationRepository) GetMessage(ctx context.Context, conversationID, messageID string) (*entity.Message, error) {
	doc, err := r.messages(conversationID).Doc(messageID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	return &message, nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string, before *time.Time, limit int) ([]*entity.Message, error) {
	query := r.messages(conversationID).OrderBy("createdAt", firestore.Desc)
	if before != nil {
		query = query.StartAfter(*before)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	messages, err := decodeAll[entity.Message](query.Documents(ctx))
	if err != nil {
		logger.Error("Firestore error listing messages for %s: %v", conversationID, err)
		return nil, errors.Internal("Failed to list messages", err)
	}
	return messages, nil
}

func (r *firestoreConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID string) (int, error) {
	unread, err := decodeAll[entity.Message](r.messages(conversationID).Where("read", "==", false).Documents(ctx))
	if err != nil {
		return 0, errors.Internal("Failed to query unread messages", err)
	}

	var refs []*firestore.DocumentRef
	for _, m := range unread {
		if m.SenderID != readerID {
			refs = append(refs, r.messages(conversationID).Doc(m.ID))
		}
	}

	n, err := bulkUpdate(ctx, r.client, refs, []firestore.Update{{Path: "read", Value: true}})
	if err != nil {
		return n, errors.Internal("Failed to mark messages as read", err)
	}
	return n, nil
}

func (r *firestoreConversationRepository) SetTranslation(ctx context.Context, conversationID, messageID, lang string, translation entity.Translation) error {
	_, err := r.messages(conversationID).Doc(messageID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"translations", lang}, Value: translation},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to store translation", err)
	}
	return nil
}

func (r *firestoreConversationRepository) WatchRecentMessages(ctx context.Context, conversationID string, limit int, fn func([]*entity.Message) error) error {
	it := r.messages(conversationID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if watchStopped(ctx, err) {
				return nil
			}
			return errors.Internal("Message subscription failed", err)
		}

		messages, err := decodeAll[entity.Message](snap.Documents)
		if err != nil {
			return errors.Internal("Failed to parse message snapshot", err)
		}
		if err := fn(messages); err != nil {
			return err
		}
	}
}
