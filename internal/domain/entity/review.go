package entity

import (
	"time"
)

// Review is left by one party of a conversation for the other.
type Review struct {
	ID             string    `json:"id" firestore:"id"`
	ReviewerID     string    `json:"reviewer_id" firestore:"reviewerId"`
	TargetID       string    `json:"target_id" firestore:"targetId"`
	ListingID      string    `json:"listing_id" firestore:"listingId"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	Rating         int       `json:"rating" firestore:"rating"` // 1-5
	Comment        string    `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}

// ReviewID allows one review per reviewer per conversation.
func ReviewID(reviewerID, conversationID string) string {
	return reviewerID + "_" + conversationID
}
