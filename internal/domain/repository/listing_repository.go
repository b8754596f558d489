package repository

import (
	"context"
	"time"

	"marketly/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Listing, error)
	// Update writes the seller-editable fields plus OldPrice; a nil OldPrice
	// deletes the stored one. Counters and the hot badge are left untouched.
	Update(ctx context.Context, listing *entity.Listing) error
	SetStatus(ctx context.Context, id, status string) error
	SetHotUntil(ctx context.Context, id string, until *time.Time) error
	IncrementViews(ctx context.Context, id string) error
	ListRecent(ctx context.Context, before *time.Time, limit int) ([]*entity.Listing, error)
	ListBySeller(ctx context.Context, sellerID string, limit int) ([]*entity.Listing, error)
	// SearchPrefix runs a lexicographic range query on the lower-cased title.
	SearchPrefix(ctx context.Context, prefix string, limit int) ([]*entity.Listing, error)
}
