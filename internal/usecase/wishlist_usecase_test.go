package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketly/internal/domain/entity"
	"marketly/internal/infrastructure/worker"
	"marketly/pkg/errors"
)

func newWishlistFixture(t *testing.T) (*WishlistUseCase, *listingFixture) {
	t.Helper()
	f := newListingFixture(t)
	return NewWishlistUseCase(f.wishlist, f.listings, f.uc, worker.Inline{}), f
}

func TestToggleWishlist_TwiceRestoresState(t *testing.T) {
	uc, f := newWishlistFixture(t)
	ctx := context.Background()
	f.listings.put(&entity.Listing{ID: "L1", SellerID: "seller", Title: "Guitar", Status: entity.ListingStatusActive})

	res, err := uc.ToggleWishlist(ctx, "u1", "L1")
	require.NoError(t, err)
	assert.True(t, res.Liked)

	stored, _ := f.listings.GetByID(ctx, "L1")
	assert.Equal(t, 1, stored.LikeCount)
	liked, _ := uc.IsLiked(ctx, "u1", "L1")
	assert.True(t, liked)

	res, err = uc.ToggleWishlist(ctx, "u1", "L1")
	require.NoError(t, err)
	assert.False(t, res.Liked)

	stored, _ = f.listings.GetByID(ctx, "L1")
	assert.Equal(t, 0, stored.LikeCount)
	liked, _ = uc.IsLiked(ctx, "u1", "L1")
	assert.False(t, liked)
}

func TestToggleWishlist_Rejections(t *testing.T) {
	uc, f := newWishlistFixture(t)
	f.listings.put(&entity.Listing{ID: "L1", SellerID: "seller", Title: "Guitar", Status: entity.ListingStatusActive})

	_, err := uc.ToggleWishlist(context.Background(), "seller", "L1")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.ToggleWishlist(context.Background(), "u1", "missing")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestToggleWishlist_TenthLikeMakesHot(t *testing.T) {
	uc, f := newWishlistFixture(t)
	ctx := context.Background()
	f.listings.put(&entity.Listing{ID: "L1", SellerID: "seller", Title: "Console", Status: entity.ListingStatusActive})

	for i := 0; i < DefaultHotThreshold; i++ {
		stored, _ := f.listings.GetByID(ctx, "L1")
		assert.Nil(t, stored.HotUntil, "not hot before like %d", i+1)

		_, err := uc.ToggleWishlist(ctx, string(rune('a'+i)), "L1")
		require.NoError(t, err)
	}

	stored, _ := f.listings.GetByID(ctx, "L1")
	require.NotNil(t, stored.HotUntil)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), *stored.HotUntil)

	// One unlike drops the count below the threshold again.
	_, err := uc.ToggleWishlist(ctx, "a", "L1")
	require.NoError(t, err)
	stored, _ = f.listings.GetByID(ctx, "L1")
	assert.Nil(t, stored.HotUntil)
}

func TestListWishlist_JoinsListings(t *testing.T) {
	uc, f := newWishlistFixture(t)
	ctx := context.Background()
	f.listings.put(&entity.Listing{ID: "L1", SellerID: "seller", Title: "Guitar", Status: entity.ListingStatusActive})

	f.wishlist.add("u1", "L1", f.clock.Now())
	f.wishlist.add("u1", "gone", f.clock.Now().Add(time.Minute))

	items, total, err := uc.ListWishlist(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "gone", items[0].ListingID)
	assert.Nil(t, items[0].Listing)
	require.NotNil(t, items[1].Listing)
	assert.Equal(t, "Guitar", items[1].Listing.Title)
}
