package usecase

import (
	"context"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/internal/infrastructure/worker"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
)

type WishlistUseCase struct {
	wishlistRepo repository.WishlistRepository
	listingRepo  repository.ListingRepository
	listings     *ListingUseCase
	dispatcher   worker.Dispatcher
}

func NewWishlistUseCase(
	wishlistRepo repository.WishlistRepository,
	listingRepo repository.ListingRepository,
	listings *ListingUseCase,
	dispatcher worker.Dispatcher,
) *WishlistUseCase {
	return &WishlistUseCase{
		wishlistRepo: wishlistRepo,
		listingRepo:  listingRepo,
		listings:     listings,
		dispatcher:   dispatcher,
	}
}

type ToggleWishlistResult struct {
	ListingID string `json:"listing_id"`
	Liked     bool   `json:"liked"`
}

// ToggleWishlist likes or unlikes a listing and then recomputes its hot badge.
func (uc *WishlistUseCase) ToggleWishlist(ctx context.Context, userID, listingID string) (*ToggleWishlistResult, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == userID {
		return nil, errors.BadRequest("You cannot add your own listing to your wishlist", nil)
	}

	liked, err := uc.wishlistRepo.Toggle(ctx, userID, listingID, uc.listings.now())
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch("recompute_hot", func(ctx context.Context) error {
		hot, err := uc.listings.RecomputeHot(ctx, listingID)
		if err != nil {
			return err
		}
		logger.Debug("Listing %s hot=%v after wishlist toggle", listingID, hot)
		return nil
	})

	return &ToggleWishlistResult{ListingID: listingID, Liked: liked}, nil
}

func (uc *WishlistUseCase) IsLiked(ctx context.Context, userID, listingID string) (bool, error) {
	return uc.wishlistRepo.IsInWishlist(ctx, userID, listingID)
}

// ListWishlist returns the user's entries joined with their listings. Entries
// whose listing no longer exists are returned without one.
func (uc *WishlistUseCase) ListWishlist(ctx context.Context, userID string, limit, offset int) ([]*entity.WishlistItemWithListing, int64, error) {
	items, total, err := uc.wishlistRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ListingID)
	}

	listings, err := uc.listingRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entity.WishlistItemWithListing, 0, len(items))
	for _, item := range items {
		out = append(out, &entity.WishlistItemWithListing{
			ID:        item.ID,
			ListingID: item.ListingID,
			Listing:   listings[item.ListingID],
			CreatedAt: item.CreatedAt,
		})
	}
	return out, total, nil
}
