package entity

import "time"

const (
	SearchSourceIndex  = "index"
	SearchSourcePrefix = "prefix"

	SearchLogSearch = "search"
	SearchLogClick  = "click"
)

type SearchLog struct {
	ID               string    `json:"id" firestore:"id"`
	UserID           string    `json:"user_id" firestore:"userId"`
	Kind             string    `json:"kind" firestore:"kind"`
	Query            string    `json:"query" firestore:"query"`
	Source           string    `json:"source,omitempty" firestore:"source,omitempty"`
	ResultCount      int       `json:"result_count" firestore:"resultCount"`
	ClickedListingID string    `json:"clicked_listing_id,omitempty" firestore:"clickedListingId,omitempty"`
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt"`
}
