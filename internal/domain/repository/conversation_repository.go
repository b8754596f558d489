package repository

import (
	"context"
	"time"

	"marketly/internal/domain/entity"
)

// MessageSummary is what a sent message changes on its parent conversation.
type MessageSummary struct {
	SenderID    string
	RecipientID string
	Text        string
	At          time.Time
}

type ConversationRepository interface {
	// Upsert creates the conversation or, if it already exists, merges the
	// participant and listing fields without touching createdAt or counters.
	Upsert(ctx context.Context, conversation *entity.Conversation) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Conversation, error)
	ApplyMessageSummary(ctx context.Context, conversationID string, summary MessageSummary) error
	MarkRead(ctx context.Context, conversationID, userID string, at time.Time) error
	// WatchByUserID blocks, calling fn with the full participant conversation
	// set on every change, until ctx is done or fn returns an error.
	WatchByUserID(ctx context.Context, userID string, fn func([]*entity.Conversation) error) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessage(ctx context.Context, conversationID, messageID string) (*entity.Message, error)
	// ListMessages returns messages newest first, strictly older than before
	// when before is set.
	ListMessages(ctx context.Context, conversationID string, before *time.Time, limit int) ([]*entity.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID string) (int, error)
	SetTranslation(ctx context.Context, conversationID, messageID, lang string, translation entity.Translation) error
	// WatchRecentMessages delivers the limit most recent messages, newest first.
	WatchRecentMessages(ctx context.Context, conversationID string, limit int, fn func([]*entity.Message) error) error
}
