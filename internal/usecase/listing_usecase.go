package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/internal/domain/service"
	"marketly/internal/infrastructure/worker"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
)

const (
	DefaultHotThreshold = 10
	hotWindow           = 24 * time.Hour
	defaultCurrency     = "IDR"
	maxListingPage      = 50
	maxListingPhotos    = 10
)

var validConditions = map[string]bool{
	"new":      true,
	"like_new": true,
	"good":     true,
	"fair":     true,
	"poor":     true,
}

var validStatuses = map[string]bool{
	entity.ListingStatusActive: true,
	entity.ListingStatusSold:   true,
	entity.ListingStatusHidden: true,
}

type ListingUseCase struct {
	listingRepo   repository.ListingRepository
	wishlistRepo  repository.WishlistRepository
	userRepo      repository.UserRepository
	notifications *NotificationUseCase
	index         service.SearchIndexService
	dispatcher    worker.Dispatcher
	hotThreshold  int
	now           func() time.Time
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	wishlistRepo repository.WishlistRepository,
	userRepo repository.UserRepository,
	notifications *NotificationUseCase,
	index service.SearchIndexService,
	dispatcher worker.Dispatcher,
	hotThreshold int,
) *ListingUseCase {
	if hotThreshold <= 0 {
		hotThreshold = DefaultHotThreshold
	}
	return &ListingUseCase{
		listingRepo:   listingRepo,
		wishlistRepo:  wishlistRepo,
		userRepo:      userRepo,
		notifications: notifications,
		index:         index,
		dispatcher:    dispatcher,
		hotThreshold:  hotThreshold,
		now:           time.Now,
	}
}

type CreateListingInput struct {
	Title       string           `json:"title" validate:"required,max=120"`
	Description string           `json:"description" validate:"max=5000"`
	Price       float64          `json:"price" validate:"gt=0"`
	Currency    string           `json:"currency" validate:"omitempty,len=3"`
	Condition   string           `json:"condition" validate:"required,oneof=new like_new good fair poor"`
	Category    string           `json:"category" validate:"required"`
	Photos      []string         `json:"photos" validate:"max=10,dive,url"`
	Location    *entity.Location `json:"location"`
}

// UpdateListingInput applies only the fields that are set.
type UpdateListingInput struct {
	Title       *string          `json:"title" validate:"omitempty,max=120"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *float64         `json:"price" validate:"omitempty,gt=0"`
	Condition   *string          `json:"condition" validate:"omitempty,oneof=new like_new good fair poor"`
	Category    *string          `json:"category"`
	Photos      []string         `json:"photos" validate:"omitempty,max=10,dive,url"`
	Location    *entity.Location `json:"location"`
}

// ListingDetail is a listing as seen by one viewer.
type ListingDetail struct {
	*entity.Listing
	Hot   bool `json:"hot"`
	Liked bool `json:"liked"`
}

// ApplyPriceChange returns the oldPrice to store after moving from current to
// next, and whether the move is a drop. The first drop captures current; later
// drops keep it; reaching or passing the captured price clears it.
func ApplyPriceChange(current float64, oldPrice *float64, next float64) (*float64, bool) {
	if oldPrice != nil && next >= *oldPrice {
		return nil, false
	}
	if next < current {
		if oldPrice == nil {
			captured := current
			return &captured, true
		}
		return oldPrice, true
	}
	return oldPrice, false
}

func validateListing(l *entity.Listing) error {
	switch {
	case strings.TrimSpace(l.Title) == "":
		return errors.BadRequest("Title is required", nil)
	case l.Price <= 0:
		return errors.BadRequest("Price must be greater than zero", nil)
	case !validConditions[l.Condition]:
		return errors.BadRequest("Invalid condition", nil)
	case strings.TrimSpace(l.Category) == "":
		return errors.BadRequest("Category is required", nil)
	case len(l.Photos) > maxListingPhotos:
		return errors.BadRequest(fmt.Sprintf("At most %d photos are allowed", maxListingPhotos), nil)
	}
	return nil
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	now := uc.now()
	listing := &entity.Listing{
		ID:          uuid.New().String(),
		SellerID:    sellerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Currency:    strings.ToUpper(input.Currency),
		Condition:   input.Condition,
		Category:    input.Category,
		Photos:      input.Photos,
		Status:      entity.ListingStatusActive,
		Location:    input.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if listing.Currency == "" {
		listing.Currency = defaultCurrency
	}
	if listing.Photos == nil {
		listing.Photos = []string{}
	}
	listing.TitleLower = strings.ToLower(listing.Title)

	if err := validateListing(listing); err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	logger.Info("Listing %s created by %s", listing.ID, sellerID)

	snapshot := *listing
	uc.dispatcher.Dispatch("keyword_fanout", func(ctx context.Context) error {
		return uc.FanOutKeywordMatches(ctx, &snapshot)
	})
	uc.syncIndex(&snapshot)

	return listing, nil
}

func (uc *ListingUseCase) ownedListing(ctx context.Context, sellerID, listingID string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, errors.Forbidden("You can only modify your own listings", nil)
	}
	return listing, nil
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, sellerID, listingID string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := uc.ownedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		listing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		listing.Description = strings.TrimSpace(*input.Description)
	}
	if input.Condition != nil {
		listing.Condition = *input.Condition
	}
	if input.Category != nil {
		listing.Category = *input.Category
	}
	if input.Photos != nil {
		listing.Photos = input.Photos
	}
	if input.Location != nil {
		listing.Location = input.Location
	}

	previousPrice := listing.Price
	dropped := false
	if input.Price != nil && *input.Price != listing.Price {
		listing.OldPrice, dropped = ApplyPriceChange(listing.Price, listing.OldPrice, *input.Price)
		listing.Price = *input.Price
	}

	if err := validateListing(listing); err != nil {
		return nil, err
	}

	listing.TitleLower = strings.ToLower(listing.Title)
	listing.UpdatedAt = uc.now()
	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	snapshot := *listing
	if dropped {
		uc.dispatcher.Dispatch("price_drop_fanout", func(ctx context.Context) error {
			return uc.notifyPriceDrop(ctx, &snapshot, previousPrice)
		})
	}
	uc.syncIndex(&snapshot)

	return listing, nil
}

func (uc *ListingUseCase) notifyPriceDrop(ctx context.Context, listing *entity.Listing, previousPrice float64) error {
	if uc.notifications == nil {
		return nil
	}

	userIDs, err := uc.wishlistRepo.ListUserIDsByListing(ctx, listing.ID)
	if err != nil {
		return err
	}

	sent := 0
	for _, userID := range userIDs {
		if userID == listing.SellerID {
			continue
		}
		err := uc.notifications.Notify(ctx, &entity.Notification{
			UserID:    userID,
			Type:      entity.NotificationPriceDrop,
			Title:     "Price drop",
			Body:      fmt.Sprintf("%s is now %s %.0f (was %.0f)", listing.Title, listing.Currency, listing.Price, previousPrice),
			ListingID: listing.ID,
			CreatedAt: uc.now(),
		})
		if err != nil {
			logger.LogBackgroundError("price_drop_notify", userID, err)
			continue
		}
		sent++
	}

	logger.Info("Price drop on %s notified %d users", listing.ID, sent)
	return nil
}

// FanOutKeywordMatches notifies users whose saved keywords share a token with
// the listing title.
func (uc *ListingUseCase) FanOutKeywordMatches(ctx context.Context, listing *entity.Listing) error {
	if uc.notifications == nil {
		return nil
	}

	tokens := KeywordTokens(listing.Title)
	if len(tokens) == 0 {
		return nil
	}

	users, err := uc.userRepo.FindByAnyKeyword(ctx, tokens)
	if err != nil {
		return err
	}

	for _, user := range users {
		if user.ID == listing.SellerID {
			continue
		}
		err := uc.notifications.Notify(ctx, &entity.Notification{
			UserID:    user.ID,
			Type:      entity.NotificationKeywordMatch,
			Title:     "New listing matches your interests",
			Body:      listing.Title,
			ListingID: listing.ID,
			CreatedAt: uc.now(),
		})
		if err != nil {
			logger.LogBackgroundError("keyword_notify", user.ID, err)
		}
	}
	return nil
}

func (uc *ListingUseCase) syncIndex(listing *entity.Listing) {
	if uc.index == nil {
		return
	}

	uc.dispatcher.Dispatch("index_sync", func(ctx context.Context) error {
		if listing.Status == entity.ListingStatusActive {
			return uc.index.IndexListing(ctx, listing)
		}
		return uc.index.RemoveListing(ctx, listing.ID)
	})
}

func (uc *ListingUseCase) SetStatus(ctx context.Context, sellerID, listingID, status string) (*entity.Listing, error) {
	if !validStatuses[status] {
		return nil, errors.BadRequest("Invalid status", nil)
	}

	listing, err := uc.ownedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status == status {
		return listing, nil
	}

	previous := listing.Status
	if err := uc.listingRepo.SetStatus(ctx, listingID, status); err != nil {
		return nil, err
	}
	listing.Status = status
	listing.UpdatedAt = uc.now()

	if status == entity.ListingStatusSold && previous != entity.ListingStatusSold {
		if err := uc.userRepo.IncrementListingsSold(ctx, sellerID); err != nil {
			logger.LogBackgroundError("listings_sold", sellerID, err)
		}
	}

	snapshot := *listing
	uc.syncIndex(&snapshot)
	return listing, nil
}

// GetListing hides non-public listings from everyone but the seller and
// counts the view for other viewers.
func (uc *ListingUseCase) GetListing(ctx context.Context, viewerID, listingID string) (*ListingDetail, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	isOwner := viewerID != "" && viewerID == listing.SellerID
	if listing.Status == entity.ListingStatusHidden && !isOwner {
		return nil, errors.NotFound("Listing", nil)
	}

	detail := &ListingDetail{Listing: listing, Hot: listing.IsHot(uc.now())}

	if !isOwner {
		uc.dispatcher.Dispatch("listing_view", func(ctx context.Context) error {
			return uc.listingRepo.IncrementViews(ctx, listingID)
		})
	}

	if viewerID != "" && !isOwner {
		liked, err := uc.wishlistRepo.IsInWishlist(ctx, viewerID, listingID)
		if err != nil {
			logger.Warn("Wishlist lookup failed for %s/%s: %v", viewerID, listingID, err)
		}
		detail.Liked = liked
	}

	return detail, nil
}

// ListRecent returns active listings newest first plus the cursor for the
// next page.
func (uc *ListingUseCase) ListRecent(ctx context.Context, before *time.Time, limit int) ([]*ListingDetail, *time.Time, error) {
	if limit <= 0 || limit > maxListingPage {
		limit = 20
	}

	listings, err := uc.listingRepo.ListRecent(ctx, before, limit)
	if err != nil {
		return nil, nil, err
	}

	var next *time.Time
	if len(listings) == limit {
		last := listings[len(listings)-1].CreatedAt
		next = &last
	}
	return uc.details(listings), next, nil
}

func (uc *ListingUseCase) ListBySeller(ctx context.Context, viewerID, sellerID string) ([]*ListingDetail, error) {
	listings, err := uc.listingRepo.ListBySeller(ctx, sellerID, maxListingPage)
	if err != nil {
		return nil, err
	}

	if viewerID != sellerID {
		visible := listings[:0]
		for _, l := range listings {
			if l.Status != entity.ListingStatusHidden {
				visible = append(visible, l)
			}
		}
		listings = visible
	}
	return uc.details(listings), nil
}

func (uc *ListingUseCase) details(listings []*entity.Listing) []*ListingDetail {
	now := uc.now()
	out := make([]*ListingDetail, 0, len(listings))
	for _, l := range listings {
		out = append(out, &ListingDetail{Listing: l, Hot: l.IsHot(now)})
	}
	return out
}

// RecomputeHot re-counts wishlist entries from the trailing 24 hours and sets
// or clears the listing's hot badge.
func (uc *ListingUseCase) RecomputeHot(ctx context.Context, listingID string) (bool, error) {
	now := uc.now()

	count, err := uc.wishlistRepo.CountSince(ctx, listingID, now.Add(-hotWindow))
	if err != nil {
		return false, err
	}

	var until *time.Time
	hot := count >= uc.hotThreshold
	if hot {
		expiry := now.Add(hotWindow)
		until = &expiry
	}

	if err := uc.listingRepo.SetHotUntil(ctx, listingID, until); err != nil {
		return false, err
	}
	return hot, nil
}

// IsHot reports whether the badge is showing at now.
func IsHot(listing *entity.Listing, now time.Time) bool {
	return listing.IsHot(now)
}
