package repository

import (
	"context"
	"time"

	"marketly/internal/domain/entity"
)

type WishlistRepository interface {
	// Toggle adds the entry when absent and removes it when present, adjusting
	// the listing's likeCount atomically in the same step.
	Toggle(ctx context.Context, userID, listingID string, now time.Time) (liked bool, err error)
	IsInWishlist(ctx context.Context, userID, listingID string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.WishlistItem, int64, error)
	CountSince(ctx context.Context, listingID string, since time.Time) (int, error)
	ListUserIDsByListing(ctx context.Context, listingID string) ([]string, error)
}
