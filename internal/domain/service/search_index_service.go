package service

import (
	"context"
	"fmt"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"marketly/internal/domain/entity"
)

type SearchIndexService interface {
	IndexListing(ctx context.Context, listing *entity.Listing) error
	RemoveListing(ctx context.Context, listingID string) error
	// Search returns matching listing ids in relevance order.
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

type AlgoliaSearchService struct {
	index         *search.Index
	writesEnabled bool
}

// indexedListing is the record shape pushed to the index.
type indexedListing struct {
	ObjectID  string   `json:"objectID"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Condition string   `json:"condition"`
	Price     float64  `json:"price"`
	Currency  string   `json:"currency"`
	Status    string   `json:"status"`
	SellerID  string   `json:"sellerId"`
	Photos    []string `json:"photos"`
	CreatedAt int64    `json:"createdAt"`
}

func NewAlgoliaSearchService(appID, apiKey, indexName string, writesEnabled bool) *AlgoliaSearchService {
	client := search.NewClient(appID, apiKey)
	return &AlgoliaSearchService{
		index:         client.InitIndex(indexName),
		writesEnabled: writesEnabled,
	}
}

func (s *AlgoliaSearchService) IndexListing(ctx context.Context, listing *entity.Listing) error {
	if !s.writesEnabled {
		return nil
	}

	record := indexedListing{
		ObjectID:  listing.ID,
		Title:     listing.Title,
		Category:  listing.Category,
		Condition: listing.Condition,
		Price:     listing.Price,
		Currency:  listing.Currency,
		Status:    listing.Status,
		SellerID:  listing.SellerID,
		Photos:    listing.Photos,
		CreatedAt: listing.CreatedAt.Unix(),
	}

	if _, err := s.index.SaveObject(record); err != nil {
		return fmt.Errorf("failed to index listing %s: %v", listing.ID, err)
	}
	return nil
}

func (s *AlgoliaSearchService) RemoveListing(ctx context.Context, listingID string) error {
	if !s.writesEnabled {
		return nil
	}

	if _, err := s.index.DeleteObject(listingID); err != nil {
		return fmt.Errorf("failed to remove listing %s from index: %v", listingID, err)
	}
	return nil
}

func (s *AlgoliaSearchService) Search(ctx context.Context, query string, limit int) ([]string, error) {
	res, err := s.index.Search(query,
		opt.HitsPerPage(limit),
		opt.Filters("status:"+entity.ListingStatusActive),
		opt.AttributesToRetrieve("objectID"),
	)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %v", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if id, ok := hit["objectID"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
