package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/internal/domain/service"
	"marketly/internal/infrastructure/ratelimit"
	ws "marketly/internal/infrastructure/websocket"
	"marketly/internal/infrastructure/worker"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
	"marketly/pkg/utils"
)

const (
	maxMessageLength       = 2000
	maxMessagePage         = 100
	maxConversationsListed = 100
)

type ConversationUseCase struct {
	convRepo      repository.ConversationRepository
	listingRepo   repository.ListingRepository
	estimator     *ResponseTimeEstimator
	notifications *NotificationUseCase
	translator    service.AIService
	uploader      service.FileUploadService
	publisher     Publisher
	limiter       RateLimiter
	dispatcher    worker.Dispatcher
	pageSize      int
	now           func() time.Time
}

func NewConversationUseCase(
	convRepo repository.ConversationRepository,
	listingRepo repository.ListingRepository,
	estimator *ResponseTimeEstimator,
	notifications *NotificationUseCase,
	translator service.AIService,
	uploader service.FileUploadService,
	publisher Publisher,
	limiter RateLimiter,
	dispatcher worker.Dispatcher,
	pageSize int,
) *ConversationUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	return &ConversationUseCase{
		convRepo:      convRepo,
		listingRepo:   listingRepo,
		estimator:     estimator,
		notifications: notifications,
		translator:    translator,
		uploader:      uploader,
		publisher:     publisher,
		limiter:       limiter,
		dispatcher:    dispatcher,
		pageSize:      pageSize,
		now:           time.Now,
	}
}

type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Text           string
	ImageURL       string
}

// StartConversation opens (or reopens) the buyer's thread with the seller of
// listingID.
func (uc *ConversationUseCase) StartConversation(ctx context.Context, buyerID, listingID string) (*entity.Conversation, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	id, err := uc.GetOrCreateConversation(ctx, buyerID, listing.SellerID, listing.ID, listing.Meta())
	if err != nil {
		return nil, err
	}
	return uc.convRepo.GetByID(ctx, id)
}

// GetOrCreateConversation is idempotent: repeated calls for the same triple,
// in either participant order, return the same id.
func (uc *ConversationUseCase) GetOrCreateConversation(ctx context.Context, buyerID, sellerID, listingID string, meta entity.ListingMeta) (string, error) {
	if buyerID == "" || sellerID == "" || listingID == "" {
		return "", errors.BadRequest("Buyer, seller and listing are required", nil)
	}
	if buyerID == sellerID {
		return "", errors.BadRequest("You cannot start a conversation about your own listing", nil)
	}

	if allowed, wait := uc.limiter.Allow(buyerID, ratelimit.ActionCreateConversation); !allowed {
		logger.Warn("GetOrCreateConversation rate limited: user %s must wait %v", buyerID, wait)
		return "", errors.TooManyRequests("Too many conversations started. Please wait a moment")
	}

	now := uc.now()
	conversation := &entity.Conversation{
		ID:            entity.ConversationID(listingID, buyerID, sellerID),
		Participants:  entity.SortedPair(buyerID, sellerID),
		BuyerID:       buyerID,
		SellerID:      sellerID,
		ListingID:     listingID,
		ListingTitle:  meta.Title,
		ListingPhoto:  meta.Photo,
		UnreadCount:   map[string]int{buyerID: 0, sellerID: 0},
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := uc.convRepo.Upsert(ctx, conversation)
	if err != nil {
		return "", err
	}
	if created {
		logger.Info("Conversation %s created by %s", conversation.ID, buyerID)
	}

	return conversation.ID, nil
}

func (uc *ConversationUseCase) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	return uc.convRepo.ListByUserID(ctx, userID, maxConversationsListed)
}

// GetConversation returns the conversation if userID takes part in it.
func (uc *ConversationUseCase) GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	conversation, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}
	return conversation, nil
}

func (uc *ConversationUseCase) MarkAsRead(ctx context.Context, userID, conversationID string) error {
	if _, err := uc.GetConversation(ctx, userID, conversationID); err != nil {
		return err
	}

	if err := uc.convRepo.MarkRead(ctx, conversationID, userID, uc.now()); err != nil {
		return err
	}

	uc.dispatcher.Dispatch("mark_messages_read", func(ctx context.Context) error {
		n, err := uc.convRepo.MarkMessagesRead(ctx, conversationID, userID)
		if err != nil {
			return err
		}
		logger.Debug("Marked %d messages read in %s for %s", n, conversationID, userID)
		return nil
	})
	return nil
}

func (uc *ConversationUseCase) SendMessage(ctx context.Context, input SendMessageInput) (*entity.Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && input.ImageURL == "" {
		return nil, errors.BadRequest("Message text or image is required", nil)
	}
	if len([]rune(text)) > maxMessageLength {
		return nil, errors.BadRequest("Message is too long", nil)
	}

	if allowed, wait := uc.limiter.Allow(input.SenderID, ratelimit.ActionSendMessage); !allowed {
		logger.Warn("SendMessage rate limited: user %s must wait %v", input.SenderID, wait)
		return nil, errors.TooManyRequests("You are sending messages too fast. Please slow down")
	}

	// Single read: counterpart and previous-message data for the estimator.
	conversation, err := uc.GetConversation(ctx, input.SenderID, input.ConversationID)
	if err != nil {
		return nil, err
	}
	recipientID := conversation.Counterpart(input.SenderID)

	now := uc.now()
	message := &entity.Message{
		ID:             uuid.New().String(),
		ConversationID: conversation.ID,
		SenderID:       input.SenderID,
		Text:           text,
		ImageURL:       input.ImageURL,
		CreatedAt:      now,
	}

	if err := uc.convRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	err = uc.convRepo.ApplyMessageSummary(ctx, conversation.ID, repository.MessageSummary{
		SenderID:    input.SenderID,
		RecipientID: recipientID,
		Text:        message.Summary(),
		At:          now,
	})
	if err != nil {
		return nil, err
	}

	if ShouldEstimate(conversation.LastSenderID, conversation.LastMessageAt, input.SenderID) {
		minutes := ElapsedMinutes(conversation.LastMessageAt, now)
		uc.dispatcher.Dispatch("response_time", func(ctx context.Context) error {
			uc.estimator.RecordReply(ctx, input.SenderID, minutes)
			return nil
		})
	}

	uc.publisher.PublishToRoom(conversation.ID, ws.EventNewMessage, message)

	if uc.notifications != nil {
		uc.dispatcher.Dispatch("message_push", func(ctx context.Context) error {
			uc.notifications.Push(ctx, recipientID, service.PushMessage{
				Title: conversation.ListingTitle,
				Body:  message.Summary(),
				Data: map[string]string{
					"type":           entity.NotificationMessage,
					"conversationId": conversation.ID,
				},
			})
			return nil
		})
	}

	return message, nil
}

// ListMessages returns one page in chronological order plus the cursor for
// the next (older) page, nil when there is none.
func (uc *ConversationUseCase) ListMessages(ctx context.Context, userID, conversationID string, before *time.Time, limit int) ([]*entity.Message, *time.Time, error) {
	if _, err := uc.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, nil, err
	}

	if limit <= 0 {
		limit = uc.pageSize
	}
	if limit > maxMessagePage {
		limit = maxMessagePage
	}

	messages, err := uc.convRepo.ListMessages(ctx, conversationID, before, limit)
	if err != nil {
		return nil, nil, err
	}

	var next *time.Time
	if len(messages) == limit {
		oldest := messages[len(messages)-1].CreatedAt
		next = &oldest
	}

	reverseMessages(messages)
	return messages, next, nil
}

// SubscribeMessages calls fn with the most recent limit messages, oldest
// first, on every change. The returned func unsubscribes.
func (uc *ConversationUseCase) SubscribeMessages(ctx context.Context, conversationID string, limit int, fn func([]*entity.Message)) func() {
	if limit <= 0 {
		limit = uc.pageSize
	}
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		err := uc.convRepo.WatchRecentMessages(ctx, conversationID, limit, func(messages []*entity.Message) error {
			reverseMessages(messages)
			fn(messages)
			return nil
		})
		if err != nil {
			logger.Warn("Message subscription for %s ended: %v", conversationID, err)
		}
	}()

	return cancel
}

func (uc *ConversationUseCase) TranslateMessage(ctx context.Context, userID, conversationID, messageID, lang string) (*entity.Translation, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) < 2 || len(lang) > 8 {
		return nil, errors.BadRequest("Invalid target language", nil)
	}
	if uc.translator == nil {
		return nil, errors.Internal("Translation is not configured", nil)
	}

	if _, err := uc.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	message, err := uc.convRepo.GetMessage(ctx, conversationID, messageID)
	if err != nil {
		return nil, err
	}
	if cached, ok := message.Translations[lang]; ok {
		return &cached, nil
	}
	if message.Text == "" {
		return nil, errors.BadRequest("Message has no text to translate", nil)
	}

	text, err := uc.translator.Translate(ctx, message.Text, lang)
	if err != nil {
		logger.Warn("Translation of %s/%s failed: %v", conversationID, messageID, err)
		return nil, errors.Unprocessable("AI_NO_RESULT", "Translation is unavailable right now, please retry", err)
	}

	translation := entity.Translation{Text: text, TranslatedAt: uc.now()}
	if err := uc.convRepo.SetTranslation(ctx, conversationID, messageID, lang, translation); err != nil {
		logger.LogBackgroundError("translation_cache", messageID, err)
	}
	return &translation, nil
}

// UploadImage stores a chat image and returns its public URL for a
// following SendMessage.
func (uc *ConversationUseCase) UploadImage(ctx context.Context, userID, conversationID string, file io.Reader, contentType string) (string, error) {
	if !utils.IsAllowedImageType(contentType) {
		return "", errors.BadRequest("Only JPEG, PNG or WebP images can be sent in chat", nil)
	}
	if uc.uploader == nil {
		return "", errors.Internal("File storage is not configured", nil)
	}

	if _, err := uc.GetConversation(ctx, userID, conversationID); err != nil {
		return "", err
	}

	url, err := uc.uploader.UploadFile(ctx, file, contentType, "chat/"+conversationID, true)
	if err != nil {
		return "", errors.Internal("Failed to upload image", err)
	}
	return url, nil
}

func reverseMessages(messages []*entity.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
