package notifying

import (
	"context"
	"fmt"

	"vendora/internal/auctionerrors"
	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/utils"
)

// Notification types emitted by the fan-out
const (
	TypeBidPlaced      = "bid_placed"
	TypeBidReceived    = "bid_received"
	TypeAuctionCreated = "auction_created"
)

// Service derives and persists notification records from auction events and
// serves the collaborator-facing read path. Fan-out is best-effort: the
// triggering event (an admitted bid, a created auction) is the financially
// significant record and must survive independent of delivery, so store
// failures here are logged and swallowed.
type Service struct {
	store repository.NotificationStore
}

// NewService creates a new notifying Service instance
func NewService(store repository.NotificationStore) *Service {
	return &Service{store: store}
}

// BidAdmitted fans out a successful admission: one bid_placed to the bidder
// when known, one bid_received to the auction creator when known and
// different from the bidder.
func (s *Service) BidAdmitted(ctx context.Context, bid models.Bid, item models.AuctionItem, auction models.Auction) {
	if bid.UserID != "" {
		s.create(ctx, models.Notification{
			UserID:           bid.UserID,
			Title:            "Bid Placed Successfully",
			Message:          fmt.Sprintf("Your bid of %s has been placed on %s", bid.Amount, item.ListingTitle),
			NotificationType: TypeBidPlaced,
			Deeplink:         fmt.Sprintf("/auction/%s/bid", item.AuctionID),
			Metadata: map[string]any{
				"bid_id":          bid.BidID,
				"auction_item_id": item.ItemID,
				"auction_id":      item.AuctionID,
				"amount":          bid.Amount.String(),
			},
		})
	}

	if auction.CreatedBy == "" || auction.CreatedBy == bid.UserID {
		return
	}

	s.create(ctx, models.Notification{
		UserID:           auction.CreatedBy,
		Title:            "New Bid Received",
		Message:          fmt.Sprintf("A new bid of %s has been placed on %s", bid.Amount, item.ListingTitle),
		NotificationType: TypeBidReceived,
		Deeplink:         fmt.Sprintf("/auction/%s/details", item.AuctionID),
		Metadata: map[string]any{
			"bid_id":          bid.BidID,
			"auction_item_id": item.ItemID,
			"auction_id":      item.AuctionID,
			"amount":          bid.Amount.String(),
			"bidder_name":     s.bidderName(ctx, bid.UserID),
		},
	})
}

// AuctionCreated notifies the creator that the orchestrator finished
func (s *Service) AuctionCreated(ctx context.Context, auction models.Auction, itemCount int) {
	if auction.CreatedBy == "" {
		return
	}

	s.create(ctx, models.Notification{
		UserID:           auction.CreatedBy,
		Title:            "Auction Created",
		Message:          fmt.Sprintf("Your auction '%s' has been created successfully with %d item(s)", auction.Name, itemCount),
		NotificationType: TypeAuctionCreated,
		Deeplink:         fmt.Sprintf("/auction/%s/details", auction.AuctionID),
		Metadata: map[string]any{
			"auction_id":   auction.AuctionID,
			"auction_name": auction.Name,
			"items_count":  itemCount,
		},
	})
}

// create persists one record; failures are downgraded to warnings
func (s *Service) create(ctx context.Context, n models.Notification) {
	if _, err := s.store.CreateNotification(ctx, n); err != nil {
		utils.Warn("notifying: failed to persist notification", map[string]any{
			"user_id":           n.UserID,
			"notification_type": n.NotificationType,
			"error":             err.Error(),
		})
	}
}

// bidderName resolves the display name carried on the creator's copy.
// An unknown bidder yields an empty name, never an error.
func (s *Service) bidderName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		utils.Warn("notifying: failed to resolve bidder name", map[string]any{"user_id": userID, "error": err.Error()})
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Inbox is a user's notification listing plus the unread counter
type Inbox struct {
	Notifications []models.Notification
	UnreadCount   int
}

// List returns a user's notifications, most recent first, with optional
// seen/type filters
func (s *Service) List(ctx context.Context, userID string, q repository.NotificationQuery) (Inbox, error) {
	if userID == "" {
		return Inbox{}, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrValidation)
	}

	notifications, err := s.store.ListNotificationsByUser(ctx, userID, q)
	if err != nil {
		return Inbox{}, fmt.Errorf("service: failed to list notifications for user %s: %w", userID, err)
	}
	unread, err := s.store.CountUnseenNotifications(ctx, userID)
	if err != nil {
		return Inbox{}, fmt.Errorf("service: failed to count unseen notifications for user %s: %w", userID, err)
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}
	return Inbox{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkSeen flips one notification's seen flag
func (s *Service) MarkSeen(ctx context.Context, notificationID string) (models.Notification, error) {
	if notificationID == "" {
		return models.Notification{}, fmt.Errorf("service: %w - empty notification ID", auctionerrors.ErrValidation)
	}

	n, err := s.store.MarkNotificationSeen(ctx, notificationID)
	if err != nil {
		return models.Notification{}, fmt.Errorf("service: failed to mark notification %s seen: %w", notificationID, err)
	}
	return n, nil
}

// MarkAllSeen flips every unseen notification of a user, returning the count
func (s *Service) MarkAllSeen(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrValidation)
	}

	count, err := s.store.MarkAllNotificationsSeen(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to mark notifications seen for user %s: %w", userID, err)
	}
	return count, nil
}
