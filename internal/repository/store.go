package repository

import (
	"context"

	model "vendora/internal/models"
)

// BidStore is the persistence contract of the bid admission engine.
// AdmitBid commits the bid row and the item price advance as one unit.
type BidStore interface {
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	GetAuctionItem(ctx context.Context, itemID string) (model.AuctionItem, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
	AdmitBid(ctx context.Context, bid model.Bid) (model.AuctionItem, error)
	GetBidsByItem(ctx context.Context, itemID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, itemID string) (model.Bid, error)
}

// LifecycleStore is the persistence contract of the auction/item state
// machine. Status updates are guarded: they only apply when the stored
// status still equals from.
type LifecycleStore interface {
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	ListAuctionsByStatus(ctx context.Context, status model.AuctionStatus) ([]model.Auction, error)
	UpdateAuctionStatus(ctx context.Context, auctionID string, from, to model.AuctionStatus) (model.Auction, error)
	ListItemsByAuction(ctx context.Context, auctionID string) ([]model.AuctionItem, error)
	UpdateItemStatus(ctx context.Context, itemID string, from, to model.ItemStatus) (model.AuctionItem, error)
	GetWinningBid(ctx context.Context, itemID string) (model.Bid, error)
}

// CatalogStore is the persistence contract of the creation orchestrator.
// CreateAuctionBundle is all-or-nothing: on any error no row persists.
type CatalogStore interface {
	CreateAuctionBundle(ctx context.Context, bundle AuctionBundle) (model.Auction, []model.AuctionItem, error)
}

// NotificationStore is the persistence contract of the notification fan-out
// and its collaborator-facing read path.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	GetNotification(ctx context.Context, notificationID string) (model.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID string, q NotificationQuery) ([]model.Notification, error)
	CountUnseenNotifications(ctx context.Context, userID string) (int, error)
	MarkNotificationSeen(ctx context.Context, notificationID string) (model.Notification, error)
	MarkAllNotificationsSeen(ctx context.Context, userID string) (int, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
}

// Store is the full contract implemented by every backend
type Store interface {
	BidStore
	LifecycleStore
	CatalogStore
	NotificationStore
}

// NotificationQuery filters the per-user notification listing
type NotificationQuery struct {
	Seen  *bool
	Type  string
	Limit int
}

// BundleItem is one product listing inside a creation bundle. Category and
// product are find-or-create keys, not guaranteed-new rows.
type BundleItem struct {
	CategoryName string
	Product      model.Product
	Item         model.AuctionItem
}

// AuctionBundle is the multi-entity input of CreateAuctionBundle
type AuctionBundle struct {
	Auction model.Auction
	Items   []BundleItem
}
