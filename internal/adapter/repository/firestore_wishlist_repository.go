package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
)

type firestoreWishlistRepository struct {
	client *firestore.Client
}

func NewFirestoreWishlistRepository(client *firestore.Client) repository.WishlistRepository {
	return &firestoreWishlistRepository{client: client}
}

func (r *firestoreWishlistRepository) wishlists() *firestore.CollectionRef {
	return r.client.Collection(collectionWishlists)
}

func (r *firestoreWishlistRepository) Toggle(ctx context.Context, userID, listingID string, now time.Time) (bool, error) {
	entryRef := r.wishlists().Doc(entity.WishlistID(userID, listingID))
	listingRef := r.client.Collection(collectionListings).Doc(listingID)

	var liked bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(entryRef)
		if err != nil && !isNotFound(err) {
			return err
		}

		if snap != nil && snap.Exists() {
			liked = false
			if err := tx.Delete(entryRef); err != nil {
				return err
			}
			return tx.Update(listingRef, []firestore.Update{
				{Path: "likeCount", Value: firestore.Increment(-1)},
			})
		}

		liked = true
		if err := tx.Create(entryRef, &entity.WishlistItem{
			ID:        entryRef.ID,
			UserID:    userID,
			ListingID: listingID,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return tx.Update(listingRef, []firestore.Update{
			{Path: "likeCount", Value: firestore.Increment(1)},
		})
	})
	if err != nil {
		if isNotFound(err) {
			return false, errors.NotFound("Listing", err)
		}
		return false, errors.Internal("Failed to toggle wishlist", err)
	}

	logger.Debug("Wishlist toggle user=%s listing=%s liked=%v", userID, listingID, liked)
	return liked, nil
}

func (r *firestoreWishlistRepository) IsInWishlist(ctx context.Context, userID, listingID string) (bool, error) {
	_, err := r.wishlists().Doc(entity.WishlistID(userID, listingID)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, errors.Internal("Failed to check wishlist", err)
	}
	return true, nil
}

func (r *firestoreWishlistRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.WishlistItem, int64, error) {
	base := r.wishlists().Where("userId", "==", userID)

	total, err := countQuery(ctx, base)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count wishlist", err)
	}

	query := base.OrderBy("createdAt", firestore.Desc)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	items, err := decodeAll[entity.WishlistItem](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list wishlist", err)
	}
	return items, total, nil
}

func (r *firestoreWishlistRepository) CountSince(ctx context.Context, listingID string, since time.Time) (int, error) {
	n, err := countQuery(ctx, r.wishlists().
		Where("listingId", "==", listingID).
		Where("createdAt", ">=", since))
	if err != nil {
		return 0, errors.Internal("Failed to count recent wishlist entries", err)
	}
	return int(n), nil
}

func (r *firestoreWishlistRepository) ListUserIDsByListing(ctx context.Context, listingID string) ([]string, error) {
	items, err := decodeAll[entity.WishlistItem](r.wishlists().Where("listingId", "==", listingID).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list wishlisting users", err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.UserID)
	}
	return ids, nil
}
