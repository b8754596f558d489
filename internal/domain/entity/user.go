package entity

import (
	"time"
)

type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email,omitempty" firestore:"email"`
	DisplayName string `json:"display_name" firestore:"displayName"`
	PhotoURL    string `json:"photo_url,omitempty" firestore:"photoUrl,omitempty"`
	Bio         string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Location    string `json:"location,omitempty" firestore:"location,omitempty"`

	PushToken string   `json:"-" firestore:"pushToken,omitempty"`
	Keywords  []string `json:"keywords,omitempty" firestore:"keywords"`

	RatingAverage float64 `json:"rating_average" firestore:"ratingAverage"`
	RatingCount   int     `json:"rating_count" firestore:"ratingCount"`
	ListingsSold  int     `json:"listings_sold" firestore:"listingsSold"`

	// Reply latency aggregate, see usecase.ResponseTimeEstimator.
	ResponseTotalMinutes float64 `json:"-" firestore:"responseTotalMinutes"`
	ResponseCount        int     `json:"-" firestore:"responseCount"`
	AvgResponseMinutes   float64 `json:"avg_response_minutes" firestore:"avgResponseMinutes"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// AddRating folds one more review into the running average.
func (u *User) AddRating(rating int) {
	total := u.RatingAverage * float64(u.RatingCount)
	u.RatingCount++
	u.RatingAverage = (total + float64(rating)) / float64(u.RatingCount)
}

// AddResponseTime folds one more reply latency into the running average.
func (u *User) AddResponseTime(minutes float64) {
	u.ResponseTotalMinutes += minutes
	u.ResponseCount++
	u.AvgResponseMinutes = u.ResponseTotalMinutes / float64(u.ResponseCount)
}
