package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vendora/internal/auctionerrors"
	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/utils"
)

// auctionTransitions is the complete set of legal auction status moves.
// Status never reverses.
var auctionTransitions = map[models.AuctionStatus]map[models.AuctionStatus]bool{
	models.AuctionScheduled: {
		models.AuctionRunning:   true,
		models.AuctionCancelled: true,
	},
	models.AuctionRunning: {
		models.AuctionClosed: true,
	},
}

// CanTransition reports whether an auction may move from one status to another
func CanTransition(from, to models.AuctionStatus) bool {
	return auctionTransitions[from][to]
}

// ClosureSummary reports the item classification of a closed auction
type ClosureSummary struct {
	Auction models.Auction
	Sold    int
	Unsold  int
}

// SweepReport counts the transitions applied by one scheduler pass
type SweepReport struct {
	Started int
	Closed  int
}

// Service governs auction and item status transitions. Bid admission never
// moves statuses; the triggers here come from an external scheduler or an
// operator.
type Service struct {
	store repository.LifecycleStore
}

// NewService creates a new lifecycle Service instance
func NewService(store repository.LifecycleStore) *Service {
	return &Service{store: store}
}

// StartAuction moves a scheduled auction to running
func (s *Service) StartAuction(ctx context.Context, auctionID string) (models.Auction, error) {
	a, err := s.store.UpdateAuctionStatus(ctx, auctionID, models.AuctionScheduled, models.AuctionRunning)
	if err != nil {
		return models.Auction{}, fmt.Errorf("lifecycle: start auction %s: %w", auctionID, err)
	}

	utils.Info("StartAuction: auction running", map[string]any{"auction_id": auctionID})
	return a, nil
}

// CancelAuction moves a scheduled auction to cancelled, the only legal branch
func (s *Service) CancelAuction(ctx context.Context, auctionID string) (models.Auction, error) {
	a, err := s.store.UpdateAuctionStatus(ctx, auctionID, models.AuctionScheduled, models.AuctionCancelled)
	if err != nil {
		return models.Auction{}, fmt.Errorf("lifecycle: cancel auction %s: %w", auctionID, err)
	}

	utils.Info("CancelAuction: auction cancelled", map[string]any{"auction_id": auctionID})
	return a, nil
}

// CloseAuction moves a running auction to closed and classifies each active
// item: sold when it has a winning bid that meets the reserve (when one is
// set), unsold otherwise.
func (s *Service) CloseAuction(ctx context.Context, auctionID string) (ClosureSummary, error) {
	auction, err := s.store.UpdateAuctionStatus(ctx, auctionID, models.AuctionRunning, models.AuctionClosed)
	if err != nil {
		return ClosureSummary{}, fmt.Errorf("lifecycle: close auction %s: %w", auctionID, err)
	}

	items, err := s.store.ListItemsByAuction(ctx, auctionID)
	if err != nil {
		return ClosureSummary{}, fmt.Errorf("lifecycle: close auction %s: %w", auctionID, err)
	}

	summary := ClosureSummary{Auction: auction}
	for _, item := range items {
		if item.Status != models.ItemActive {
			continue
		}

		status, err := s.classify(ctx, item)
		if err != nil {
			return ClosureSummary{}, fmt.Errorf("lifecycle: close auction %s: classify item %s: %w", auctionID, item.ItemID, err)
		}

		if _, err := s.store.UpdateItemStatus(ctx, item.ItemID, models.ItemActive, status); err != nil {
			return ClosureSummary{}, fmt.Errorf("lifecycle: close auction %s: item %s: %w", auctionID, item.ItemID, err)
		}

		if status == models.ItemSold {
			summary.Sold++
		} else {
			summary.Unsold++
		}
	}

	utils.Info("CloseAuction: auction closed", map[string]any{
		"auction_id": auctionID,
		"sold":       summary.Sold,
		"unsold":     summary.Unsold,
	})
	return summary, nil
}

// classify decides the terminal status of an active item at closure
func (s *Service) classify(ctx context.Context, item models.AuctionItem) (models.ItemStatus, error) {
	winning, err := s.store.GetWinningBid(ctx, item.ItemID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoBids) {
			return models.ItemUnsold, nil
		}
		return "", err
	}

	if item.ReservePrice.IsPositive() && winning.Amount.LessThan(item.ReservePrice) {
		return models.ItemUnsold, nil
	}
	return models.ItemSold, nil
}

// Sweep applies time-driven transitions as of now: scheduled auctions whose
// start_time has passed begin running, running auctions whose end_time has
// passed are closed. Meant to be invoked periodically by a scheduler
// collaborator; one failing auction does not stop the pass.
func (s *Service) Sweep(ctx context.Context, now time.Time) (SweepReport, error) {
	var report SweepReport

	scheduled, err := s.store.ListAuctionsByStatus(ctx, models.AuctionScheduled)
	if err != nil {
		return report, fmt.Errorf("lifecycle: sweep: %w", err)
	}
	for _, a := range scheduled {
		if a.StartTime.After(now) {
			continue
		}
		if _, err := s.StartAuction(ctx, a.AuctionID); err != nil {
			utils.Warn("Sweep: failed to start auction", map[string]any{"auction_id": a.AuctionID, "error": err.Error()})
			continue
		}
		report.Started++
	}

	running, err := s.store.ListAuctionsByStatus(ctx, models.AuctionRunning)
	if err != nil {
		return report, fmt.Errorf("lifecycle: sweep: %w", err)
	}
	for _, a := range running {
		if a.EndTime.After(now) {
			continue
		}
		if _, err := s.CloseAuction(ctx, a.AuctionID); err != nil {
			utils.Warn("Sweep: failed to close auction", map[string]any{"auction_id": a.AuctionID, "error": err.Error()})
			continue
		}
		report.Closed++
	}

	return report, nil
}
