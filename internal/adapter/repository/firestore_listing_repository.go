package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) listings() *firestore.CollectionRef {
	return r.client.Collection(collectionListings)
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	listing.TitleLower = strings.ToLower(listing.Title)

	_, err := r.listings().Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.listings().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	return &listing, nil
}

func (r *firestoreListingRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Listing, error) {
	out := make(map[string]*entity.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.listings().Doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get listings", err)
	}

	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			logger.Warn("Skipping unreadable listing %s: %v", doc.Ref.ID, err)
			continue
		}
		out[listing.ID] = &listing
	}
	return out, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	var oldPrice interface{} = firestore.Delete
	if listing.OldPrice != nil {
		oldPrice = *listing.OldPrice
	}
	var location interface{} = firestore.Delete
	if listing.Location != nil {
		location = listing.Location
	}

	_, err := r.listings().Doc(listing.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: listing.Title},
		{Path: "titleLower", Value: strings.ToLower(listing.Title)},
		{Path: "description", Value: listing.Description},
		{Path: "price", Value: listing.Price},
		{Path: "currency", Value: listing.Currency},
		{Path: "condition", Value: listing.Condition},
		{Path: "category", Value: listing.Category},
		{Path: "photos", Value: listing.Photos},
		{Path: "location", Value: location},
		{Path: "oldPrice", Value: oldPrice},
		{Path: "updatedAt", Value: listing.UpdatedAt},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to update listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.listings().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to update listing status", err)
	}
	return nil
}

func (r *firestoreListingRepository) SetHotUntil(ctx context.Context, id string, until *time.Time) error {
	var value interface{} = firestore.Delete
	if until != nil {
		value = *until
	}

	_, err := r.listings().Doc(id).Update(ctx, []firestore.Update{
		{Path: "hotUntil", Value: value},
	})
	if err != nil {
		return errors.Internal("Failed to update hot badge", err)
	}
	return nil
}

func (r *firestoreListingRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.listings().Doc(id).Update(ctx, []firestore.Update{
		{Path: "viewCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment listing views", err)
	}
	return nil
}

func (r *firestoreListingRepository) ListRecent(ctx context.Context, before *time.Time, limit int) ([]*entity.Listing, error) {
	query := r.listings().
		Where("status", "==", entity.ListingStatusActive).
		OrderBy("createdAt", firestore.Desc)
	if before != nil {
		query = query.StartAfter(*before)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	listings, err := decodeAll[entity.Listing](query.Documents(ctx))
	if err != nil {
		logger.Error("Firestore error listing recent listings: %v", err)
		return nil, errors.Internal("Failed to list listings", err)
	}
	return listings, nil
}

func (r *firestoreListingRepository) ListBySeller(ctx context.Context, sellerID string, limit int) ([]*entity.Listing, error) {
	query := r.listings().
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	listings, err := decodeAll[entity.Listing](query.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list seller listings", err)
	}
	return listings, nil
}

// SearchPrefix matches active listings whose title starts with prefix. The
// status + titleLower pair is a composite index (firestore.indexes.json).
func (r *firestoreListingRepository) SearchPrefix(ctx context.Context, prefix string, limit int) ([]*entity.Listing, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	query := r.listings().
		Where("status", "==", entity.ListingStatusActive).
		Where("titleLower", ">=", prefix).
		Where("titleLower", "<=", prefix+"\uf8ff").
		OrderBy("titleLower", firestore.Asc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	listings, err := decodeAll[entity.Listing](query.Documents(ctx))
	if err != nil {
		logger.Error("Firestore error searching listings for %q: %v", prefix, err)
		return nil, errors.Internal("Failed to search listings", err)
	}
	return listings, nil
}
