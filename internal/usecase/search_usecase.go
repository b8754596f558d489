package usecase

import (
	"context"
	"strings"
	"time"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/internal/domain/service"
	"marketly/internal/infrastructure/worker"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
	suggestionLimit    = 5
)

type SearchUseCase struct {
	listingRepo   repository.ListingRepository
	searchLogRepo repository.SearchLogRepository
	index         service.SearchIndexService
	dispatcher    worker.Dispatcher
	now           func() time.Time
}

func NewSearchUseCase(
	listingRepo repository.ListingRepository,
	searchLogRepo repository.SearchLogRepository,
	index service.SearchIndexService,
	dispatcher worker.Dispatcher,
) *SearchUseCase {
	return &SearchUseCase{
		listingRepo:   listingRepo,
		searchLogRepo: searchLogRepo,
		index:         index,
		dispatcher:    dispatcher,
		now:           time.Now,
	}
}

type SearchResult struct {
	Query    string            `json:"query"`
	Source   string            `json:"source"`
	Listings []*entity.Listing `json:"listings"`
}

// Search queries the search index when one is configured and falls back to
// a title prefix scan when it is absent or failing.
func (uc *SearchUseCase) Search(ctx context.Context, userID, query string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.BadRequest("Search query is required", nil)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	result := &SearchResult{Query: query}

	if uc.index != nil {
		listings, err := uc.searchIndex(ctx, query, limit)
		if err == nil {
			result.Source = entity.SearchSourceIndex
			result.Listings = listings
		} else {
			logger.Warn("Search index unavailable, falling back to prefix scan: %v", err)
		}
	}

	if result.Source == "" {
		listings, err := uc.listingRepo.SearchPrefix(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		result.Source = entity.SearchSourcePrefix
		result.Listings = listings
	}

	uc.logSearch(&entity.SearchLog{
		UserID:      userID,
		Kind:        entity.SearchLogSearch,
		Query:       query,
		Source:      result.Source,
		ResultCount: len(result.Listings),
	})

	return result, nil
}

func (uc *SearchUseCase) searchIndex(ctx context.Context, query string, limit int) ([]*entity.Listing, error) {
	ids, err := uc.index.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	byID, err := uc.listingRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Keep index relevance order; drop hits that went stale.
	listings := make([]*entity.Listing, 0, len(ids))
	for _, id := range ids {
		if l, ok := byID[id]; ok && l.Status == entity.ListingStatusActive {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

// Suggest returns up to five distinct titles starting with query.
func (uc *SearchUseCase) Suggest(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}

	// Over-fetch so duplicate titles do not starve the list.
	listings, err := uc.listingRepo.SearchPrefix(ctx, query, suggestionLimit*4)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(listings))
	titles := make([]string, 0, suggestionLimit)
	for _, l := range listings {
		if len(titles) == suggestionLimit {
			break
		}
		key := strings.ToLower(l.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		titles = append(titles, l.Title)
	}
	return titles, nil
}

func (uc *SearchUseCase) LogClick(ctx context.Context, userID, query, listingID string) error {
	if listingID == "" {
		return errors.BadRequest("Listing is required", nil)
	}

	uc.logSearch(&entity.SearchLog{
		UserID:           userID,
		Kind:             entity.SearchLogClick,
		Query:            strings.TrimSpace(query),
		ClickedListingID: listingID,
	})
	return nil
}

func (uc *SearchUseCase) logSearch(log *entity.SearchLog) {
	log.CreatedAt = uc.now()
	uc.dispatcher.Dispatch("search_log", func(ctx context.Context) error {
		return uc.searchLogRepo.Create(ctx, log)
	})
}
