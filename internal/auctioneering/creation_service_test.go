package auctioneering

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vendora/internal/auctionerrors"
	"vendora/internal/models"
	"vendora/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func draftAuction() models.Auction {
	now := time.Now().UTC()
	return models.Auction{
		Name:      "Estate Sale",
		CreatedBy: "seller1",
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(25 * time.Hour),
	}
}

// createdRecorder captures the auction-created fan-out
type createdRecorder struct {
	mu        sync.Mutex
	auctions  []models.Auction
	itemCount int
}

func (r *createdRecorder) AuctionCreated(_ context.Context, auction models.Auction, itemCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions = append(r.auctions, auction)
	r.itemCount = itemCount
}

// Tests CreateAuctionWithProducts
func TestService_CreateAuctionWithProducts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates_auction_items_and_defaults", func(t *testing.T) {
		t.Parallel()

		store := repository.NewMemoryStore()
		recorder := &createdRecorder{}
		service := NewService(store, recorder)

		auction, items, err := service.CreateAuctionWithProducts(ctx, draftAuction(), []ProductSpec{
			{Name: "Omega Seamaster", CategoryName: "Vintage Watches", StartingPrice: decimal.NewFromInt(500)},
			{Name: "Rolex Datejust", CategoryName: "Vintage Watches", StartingPrice: decimal.NewFromInt(900), ReservePrice: decimal.NewFromInt(1200)},
		})
		require.NoError(t, err)

		// defaults
		_, parseErr := uuid.Parse(auction.AuctionID)
		require.NoError(t, parseErr, "AuctionID should be a valid UUID")
		require.Equal(t, models.AuctionScheduled, auction.Status)
		require.Equal(t, models.VisibilityPublic, auction.Visibility)
		require.Equal(t, "INR", auction.Currency)

		// lot numbers follow request order, prices start at starting price
		require.Len(t, items, 2)
		require.Equal(t, 1, items[0].LotNumber)
		require.Equal(t, 2, items[1].LotNumber)
		require.Equal(t, "Omega Seamaster", items[0].ListingTitle)
		require.True(t, items[0].CurrentPrice.Equal(items[0].StartingPrice))
		require.Equal(t, models.ItemActive, items[0].Status)
		require.Equal(t, auction.AuctionID, items[0].AuctionID)
		require.NotEmpty(t, items[0].ProductID)

		// persisted
		stored, err := store.GetAuction(ctx, auction.AuctionID)
		require.NoError(t, err)
		require.Equal(t, auction.AuctionID, stored.AuctionID)

		// fan-out fired once with the item count
		require.Len(t, recorder.auctions, 1)
		require.Equal(t, auction.AuctionID, recorder.auctions[0].AuctionID)
		require.Equal(t, 2, recorder.itemCount)
	})

	t.Run("empty_product_list_is_allowed", func(t *testing.T) {
		t.Parallel()

		service := NewService(repository.NewMemoryStore(), nil)
		_, items, err := service.CreateAuctionWithProducts(ctx, draftAuction(), nil)
		require.NoError(t, err)
		require.Empty(t, items)
	})

	t.Run("invalid_auction_rejected", func(t *testing.T) {
		t.Parallel()

		store := repository.NewMemoryStore()
		recorder := &createdRecorder{}
		service := NewService(store, recorder)

		bad := draftAuction()
		bad.Name = ""

		_, _, err := service.CreateAuctionWithProducts(ctx, bad, nil)
		require.True(t, errors.Is(err, auctionerrors.ErrValidation))
		require.Empty(t, recorder.auctions)
	})

	t.Run("invalid_spec_aborts_everything", func(t *testing.T) {
		t.Parallel()

		store := repository.NewMemoryStore()
		recorder := &createdRecorder{}
		service := NewService(store, recorder)

		auction := draftAuction()
		auction.AuctionID = "auction1"

		_, _, err := service.CreateAuctionWithProducts(ctx, auction, []ProductSpec{
			{Name: "Omega Seamaster", StartingPrice: decimal.NewFromInt(500)},
			{Name: "  ", StartingPrice: decimal.NewFromInt(100)},
			{Name: "Rolex Datejust", StartingPrice: decimal.NewFromInt(900)},
		})
		require.True(t, errors.Is(err, auctionerrors.ErrValidation))

		// second spec failed, so nothing persisted
		_, err = store.GetAuction(ctx, "auction1")
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
		require.Empty(t, recorder.auctions)
	})

	t.Run("negative_price_rejected", func(t *testing.T) {
		t.Parallel()

		service := NewService(repository.NewMemoryStore(), nil)
		_, _, err := service.CreateAuctionWithProducts(ctx, draftAuction(), []ProductSpec{
			{Name: "Omega Seamaster", StartingPrice: decimal.NewFromInt(-5)},
		})
		require.True(t, errors.Is(err, auctionerrors.ErrValidation))
	})

	t.Run("duplicate_product_in_request_rejected", func(t *testing.T) {
		t.Parallel()

		store := repository.NewMemoryStore()
		service := NewService(store, nil)

		auction := draftAuction()
		auction.AuctionID = "auction1"

		_, _, err := service.CreateAuctionWithProducts(ctx, auction, []ProductSpec{
			{Name: "Omega Seamaster", StartingPrice: decimal.NewFromInt(500)},
			{Name: "Omega Seamaster", StartingPrice: decimal.NewFromInt(600)},
		})
		require.True(t, errors.Is(err, auctionerrors.ErrDuplicateAuctionItem))

		_, err = store.GetAuction(ctx, "auction1")
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})

	t.Run("reuses_seller_product_across_auctions", func(t *testing.T) {
		t.Parallel()

		store := repository.NewMemoryStore()
		service := NewService(store, nil)

		_, first, err := service.CreateAuctionWithProducts(ctx, draftAuction(), []ProductSpec{
			{Name: "Omega Seamaster", StartingPrice: decimal.NewFromInt(500)},
		})
		require.NoError(t, err)

		_, second, err := service.CreateAuctionWithProducts(ctx, draftAuction(), []ProductSpec{
			{Name: "Omega Seamaster", StartingPrice: decimal.NewFromInt(700)},
		})
		require.NoError(t, err)
		require.Equal(t, first[0].ProductID, second[0].ProductID)
	})
}
