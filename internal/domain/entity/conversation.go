package entity

import (
	"sort"
	"time"
)

// Conversation is a 1:1 negotiation thread between a buyer and a seller about
// exactly one listing. Its ID is derived from the listing and the two
// participants, see ConversationID.
type Conversation struct {
	ID            string               `json:"id" firestore:"id"`
	Participants  []string             `json:"participants" firestore:"participants"`
	BuyerID       string               `json:"buyer_id" firestore:"buyerId"`
	SellerID      string               `json:"seller_id" firestore:"sellerId"`
	ListingID     string               `json:"listing_id" firestore:"listingId"`
	ListingTitle  string               `json:"listing_title" firestore:"listingTitle"`
	ListingPhoto  string               `json:"listing_photo,omitempty" firestore:"listingPhoto,omitempty"`
	LastMessage   string               `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time            `json:"last_message_at" firestore:"lastMessageAt"`
	LastSenderID  string               `json:"last_sender_id,omitempty" firestore:"lastSenderId,omitempty"`
	UnreadCount   map[string]int       `json:"unread_count" firestore:"unreadCount"`
	LastReadAt    map[string]time.Time `json:"last_read_at,omitempty" firestore:"lastReadAt,omitempty"`
	CreatedAt     time.Time            `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time            `json:"updated_at" firestore:"updatedAt"`
}

// ListingMeta is the listing data denormalized onto a conversation so that
// conversation lists render without a join.
type ListingMeta struct {
	Title string `json:"title"`
	Photo string `json:"photo,omitempty"`
}

// ConversationID returns listingId_userA_userB with the two user ids sorted,
// so the same pair talking about the same listing always lands on the same
// document regardless of who initiates.
func ConversationID(listingID, userA, userB string) string {
	pair := SortedPair(userA, userB)
	return listingID + "_" + pair[0] + "_" + pair[1]
}

func SortedPair(userA, userB string) []string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return pair
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Counterpart returns the other participant, or "" when userID is not part
// of the conversation.
func (c *Conversation) Counterpart(userID string) string {
	if !c.HasParticipant(userID) {
		return ""
	}
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

func (c *Conversation) UnreadFor(userID string) int {
	if c.UnreadCount == nil {
		return 0
	}
	return c.UnreadCount[userID]
}
