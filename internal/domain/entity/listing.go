package entity

import (
	"time"
)

const (
	ListingStatusActive = "active"
	ListingStatusSold   = "sold"
	ListingStatusHidden = "hidden"
)

type Location struct {
	PlaceID string  `json:"place_id,omitempty" firestore:"placeId,omitempty"`
	Address string  `json:"address,omitempty" firestore:"address,omitempty"`
	Lat     float64 `json:"lat,omitempty" firestore:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty" firestore:"lng,omitempty"`
}

type Listing struct {
	ID          string    `json:"id" firestore:"id"`
	SellerID    string    `json:"seller_id" firestore:"sellerId"`
	Title       string    `json:"title" firestore:"title"`
	TitleLower  string    `json:"-" firestore:"titleLower"`
	Description string    `json:"description" firestore:"description"`
	Price       float64   `json:"price" firestore:"price"`
	Currency    string    `json:"currency" firestore:"currency"`
	Condition   string    `json:"condition" firestore:"condition"`
	Category    string    `json:"category" firestore:"category"`
	Photos      []string  `json:"photos" firestore:"photos"`
	Status      string    `json:"status" firestore:"status"`
	Location    *Location `json:"location,omitempty" firestore:"location,omitempty"`

	LikeCount int `json:"like_count" firestore:"likeCount"`
	ViewCount int `json:"view_count" firestore:"viewCount"`

	// OldPrice holds the price before the first drop; nil when no drop is active.
	OldPrice *float64 `json:"old_price,omitempty" firestore:"oldPrice,omitempty"`
	// HotUntil is the expiry of the trending badge; nil when not hot.
	HotUntil *time.Time `json:"hot_until,omitempty" firestore:"hotUntil,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (l *Listing) IsHot(now time.Time) bool {
	return l.HotUntil != nil && now.Before(*l.HotUntil)
}

func (l *Listing) CoverPhoto() string {
	if len(l.Photos) == 0 {
		return ""
	}
	return l.Photos[0]
}

func (l *Listing) Meta() ListingMeta {
	return ListingMeta{Title: l.Title, Photo: l.CoverPhoto()}
}
