package entity

import (
	"fmt"
	"time"
)

type WishlistItem struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	ListingID string    `json:"listing_id" firestore:"listingId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type WishlistItemWithListing struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Listing   *Listing  `json:"listing"`
	CreatedAt time.Time `json:"created_at"`
}

// WishlistID keys an entry deterministically so a toggle can address it
// without a query.
func WishlistID(userID, listingID string) string {
	return fmt.Sprintf("%s_%s", userID, listingID)
}
