package entity

import "time"

const (
	NotificationMessage      = "message"
	NotificationPriceDrop    = "price_drop"
	NotificationKeywordMatch = "keyword_match"
	NotificationReview       = "review"
	NotificationSystem       = "system"
)

type Notification struct {
	ID             string    `json:"id" firestore:"id"`
	UserID         string    `json:"user_id" firestore:"userId"`
	Type           string    `json:"type" firestore:"type"`
	Title          string    `json:"title" firestore:"title"`
	Body           string    `json:"body" firestore:"body"`
	ListingID      string    `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty" firestore:"conversationId,omitempty"`
	Read           bool      `json:"read" firestore:"read"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}
