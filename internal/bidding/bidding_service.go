package bidding

import (
	"context"
	"fmt"
	"time"

	"vendora/internal/auctionerrors"
	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/utils"

	"github.com/shopspring/decimal"
)

// DefaultLockWait bounds how long a bid may queue on a contended item before
// it is rejected as busy
const DefaultLockWait = 2 * time.Second

// Notifier receives the successful-admission event for fan-out. Implementations
// are best-effort: they log their own failures and never return one.
type Notifier interface {
	BidAdmitted(ctx context.Context, bid models.Bid, item models.AuctionItem, auction models.Auction)
}

// BiddingService is the bid admission engine. Admission for one item is
// serialized through the item locker; the critical section covers only the
// read-validate-commit sequence, never notification delivery.
type BiddingService struct {
	store    repository.BidStore
	locks    *itemLocker
	lockWait time.Duration
	notifier Notifier
}

// NewBiddingService creates a new BiddingService instance. notifier may be
// nil when fan-out is not wired (tests).
func NewBiddingService(store repository.BidStore, notifier Notifier, lockWait time.Duration) *BiddingService {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &BiddingService{
		store:    store,
		locks:    newItemLocker(),
		lockWait: lockWait,
		notifier: notifier,
	}
}

// PlaceBid validates and admits a bid against the item's current price and
// returns the admitted bid together with the new current price. userID may be
// empty for an anonymous bid. On any rejection there is no side effect.
func (s *BiddingService) PlaceBid(ctx context.Context, itemID, userID string, amount decimal.Decimal) (models.Bid, decimal.Decimal, error) {
	if itemID == "" {
		return models.Bid{}, decimal.Zero, fmt.Errorf("service: %w - missing itemID", auctionerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return models.Bid{}, decimal.Zero, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	release, err := s.locks.acquire(ctx, itemID, s.lockWait)
	if err != nil {
		utils.Warn("PlaceBid: could not acquire item slot", map[string]any{
			"item_id": itemID,
			"user_id": userID,
			"error":   err.Error(),
		})
		return models.Bid{}, decimal.Zero, fmt.Errorf("service: %w", err)
	}

	bid, item, auction, err := s.admit(ctx, itemID, userID, amount)
	release()
	if err != nil {
		return models.Bid{}, decimal.Zero, err
	}

	utils.Info("PlaceBid: bid admitted", map[string]any{
		"bid_id":            bid.BidID,
		"item_id":           itemID,
		"user_id":           userID,
		"amount":            bid.Amount.String(),
		"new_current_price": item.CurrentPrice.String(),
	})

	// fan-out happens outside the critical section and must not affect the
	// already-committed bid
	if s.notifier != nil {
		s.notifier.BidAdmitted(ctx, bid, item, auction)
	}

	return bid, item.CurrentPrice, nil
}

// admit runs the per-item critical section: read current price, validate
// against state and minimum increment, commit bid row plus price advance.
func (s *BiddingService) admit(ctx context.Context, itemID, userID string, amount decimal.Decimal) (models.Bid, models.AuctionItem, models.Auction, error) {
	item, err := s.store.GetAuctionItem(ctx, itemID)
	if err != nil {
		return models.Bid{}, models.AuctionItem{}, models.Auction{}, fmt.Errorf("service: %w", err)
	}

	auction, err := s.store.GetAuction(ctx, item.AuctionID)
	if err != nil {
		return models.Bid{}, models.AuctionItem{}, models.Auction{}, fmt.Errorf("service: auction for item %s: %w", itemID, err)
	}

	if auction.Status != models.AuctionRunning {
		return models.Bid{}, models.AuctionItem{}, models.Auction{},
			fmt.Errorf("service: %w - auction %s is %s", auctionerrors.ErrAuctionNotOpen, auction.AuctionID, auction.Status)
	}
	if item.Status != models.ItemActive {
		return models.Bid{}, models.AuctionItem{}, models.Auction{},
			fmt.Errorf("service: %w - item %s is %s", auctionerrors.ErrItemNotActive, itemID, item.Status)
	}

	minBid := item.CurrentPrice.Add(auction.EffectiveMinIncrement())
	if amount.LessThan(minBid) {
		return models.Bid{}, models.AuctionItem{}, models.Auction{},
			fmt.Errorf("service: %w - minimum acceptable bid is %s (current price + minimum increment)", auctionerrors.ErrBidTooLow, minBid)
	}

	bid := models.Bid{
		BidID:         utils.GenerateID(),
		AuctionItemID: itemID,
		UserID:        userID,
		Amount:        amount,
		CreatedAt:     time.Now().UTC(),
	}

	updated, err := s.store.AdmitBid(ctx, bid)
	if err != nil {
		return models.Bid{}, models.AuctionItem{}, models.Auction{},
			fmt.Errorf("service: failed to admit bid for item %s by user %s: %w", itemID, userID, err)
	}

	return bid, updated, auction, nil
}

// GetBidsForItem returns the item's bids ranked highest first
func (s *BiddingService) GetBidsForItem(ctx context.Context, itemID string) ([]models.Bid, error) {
	if itemID == "" {
		return nil, fmt.Errorf("service: %w - empty item ID", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.store.GetBidsByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for item %s: %w", itemID, err)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for a specific item
func (s *BiddingService) GetWinningBid(ctx context.Context, itemID string) (models.Bid, error) {
	if itemID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty item ID", auctionerrors.ErrInvalidBid)
	}

	winning, err := s.store.GetWinningBid(ctx, itemID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for item %s: %w", itemID, err)
	}
	return winning, nil
}
