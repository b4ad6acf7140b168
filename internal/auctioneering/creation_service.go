package auctioneering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vendora/internal/auctionerrors"
	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/utils"

	"github.com/shopspring/decimal"
)

// ProductSpec describes one product listing inside a create-with-products
// request. Category and product are resolved idempotently by the store.
type ProductSpec struct {
	Name          string
	Description   string
	CategoryName  string
	StartingPrice decimal.Decimal
	ReservePrice  decimal.Decimal
}

// Notifier receives the auction-created event for fan-out
type Notifier interface {
	AuctionCreated(ctx context.Context, auction models.Auction, itemCount int)
}

// Service orchestrates the multi-entity auction creation: auction, categories,
// products and auction items either all persist or none do. Every input is
// validated before a single row is staged.
type Service struct {
	store    repository.CatalogStore
	notifier Notifier
}

// NewService creates a new auctioneering Service instance. notifier may be
// nil when fan-out is not wired (tests).
func NewService(store repository.CatalogStore, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// CreateAuctionWithProducts validates the auction and every product spec,
// then commits the whole bundle as one unit. Lot numbers follow spec order
// starting at 1; each item's current price starts at its starting price.
func (s *Service) CreateAuctionWithProducts(ctx context.Context, auction models.Auction, specs []ProductSpec) (models.Auction, []models.AuctionItem, error) {
	now := time.Now().UTC()

	if auction.AuctionID == "" {
		auction.AuctionID = utils.GenerateID()
	}
	if auction.Status == "" {
		auction.Status = models.AuctionScheduled
	}
	if auction.Visibility == "" {
		auction.Visibility = models.VisibilityPublic
	}
	if auction.Currency == "" {
		auction.Currency = "INR"
	}
	auction.CreatedAt = now

	if err := auction.Validate(); err != nil {
		return models.Auction{}, nil, fmt.Errorf("auctioneering: %w", err)
	}

	bundle := repository.AuctionBundle{Auction: auction}
	for i, spec := range specs {
		if strings.TrimSpace(spec.Name) == "" {
			return models.Auction{}, nil, fmt.Errorf("auctioneering: product %d: %w: product name is required",
				i+1, auctionerrors.ErrValidation)
		}

		item := models.AuctionItem{
			ItemID:        utils.GenerateID(),
			ListingTitle:  spec.Name,
			StartingPrice: spec.StartingPrice,
			CurrentPrice:  spec.StartingPrice,
			ReservePrice:  spec.ReservePrice,
			Status:        models.ItemActive,
			LotNumber:     i + 1,
			CreatedAt:     now,
		}
		if err := item.Validate(); err != nil {
			return models.Auction{}, nil, fmt.Errorf("auctioneering: product %d: %w", i+1, err)
		}

		bundle.Items = append(bundle.Items, repository.BundleItem{
			CategoryName: spec.CategoryName,
			Product: models.Product{
				SellerID:    auction.CreatedBy,
				Name:        spec.Name,
				Description: spec.Description,
			},
			Item: item,
		})
	}

	created, items, err := s.store.CreateAuctionBundle(ctx, bundle)
	if err != nil {
		return models.Auction{}, nil, fmt.Errorf("auctioneering: failed to create auction %q: %w", auction.Name, err)
	}

	utils.Info("CreateAuctionWithProducts: auction created", map[string]any{
		"auction_id": created.AuctionID,
		"name":       created.Name,
		"items":      len(items),
	})

	if s.notifier != nil {
		s.notifier.AuctionCreated(ctx, created, len(items))
	}

	return created, items, nil
}
