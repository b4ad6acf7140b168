package models

import (
	"fmt"
	"strings"
	"time"

	"vendora/internal/auctionerrors"

	"github.com/shopspring/decimal"
)

// AuctionStatus advances monotonically: scheduled -> running -> closed,
// with scheduled -> cancelled as the only branch.
type AuctionStatus string

const (
	AuctionScheduled AuctionStatus = "scheduled"
	AuctionRunning   AuctionStatus = "running"
	AuctionClosed    AuctionStatus = "closed"
	AuctionCancelled AuctionStatus = "cancelled"
)

// Visibility controls who can discover an auction
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

// ItemStatus is terminal once it leaves active
type ItemStatus string

const (
	ItemActive  ItemStatus = "active"
	ItemSold    ItemStatus = "sold"
	ItemUnsold  ItemStatus = "unsold"
	ItemRemoved ItemStatus = "removed"
)

// User represents a participant in the auction (bidder or seller)
type User struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Category groups products; Slug is the unique find-or-create key
type Category struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

// Product is a sellable good; deduplicated per seller by name
type Product struct {
	ProductID   string `json:"product_id"`
	SellerID    string `json:"seller_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id,omitempty"`
}

// Auction is the top-level sale event owning its items
type Auction struct {
	AuctionID     string          `json:"auction_id"`
	Name          string          `json:"name"`
	CreatedBy     string          `json:"created_by,omitempty"`
	Visibility    Visibility      `json:"visibility"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	Status        AuctionStatus   `json:"status"`
	Currency      string          `json:"currency"`
	ReservePrice  decimal.Decimal `json:"reserve_price"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	MinIncrement  decimal.Decimal `json:"min_increment"`
	BuyNowPrice   decimal.Decimal `json:"buy_now_price"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AuctionItem is one lot inside an auction; CurrentPrice is written only by
// bid admission and never decreases
type AuctionItem struct {
	ItemID        string          `json:"item_id"`
	AuctionID     string          `json:"auction_id"`
	ProductID     string          `json:"product_id"`
	ListingTitle  string          `json:"listing_title"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	ReservePrice  decimal.Decimal `json:"reserve_price"`
	Status        ItemStatus      `json:"status"`
	LotNumber     int             `json:"lot_number"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Bid is immutable once admitted. Ranking for an item is amount descending,
// then created_at ascending (earlier bid wins ties).
type Bid struct {
	BidID         string          `json:"bid_id"`
	AuctionItemID string          `json:"auction_item_id"`
	UserID        string          `json:"user_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	IsAuto        bool            `json:"is_auto"`
	AutoMax       decimal.Decimal `json:"auto_max"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Notification is a durable record derived from an auction event.
// It is never mutated except to flip Seen.
type Notification struct {
	NotificationID   string         `json:"notification_id"`
	UserID           string         `json:"user_id"`
	Title            string         `json:"title"`
	Message          string         `json:"message"`
	NotificationType string         `json:"notification_type"`
	Seen             bool           `json:"seen"`
	Deeplink         string         `json:"deeplink"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// defaultMinIncrement applies when an auction does not set one
var defaultMinIncrement = decimal.NewFromInt(1)

// EffectiveMinIncrement returns the increment used for the minimum-bid rule.
// A zero or unset increment falls back to 1, which also keeps admitted
// amounts strictly increasing.
func (a Auction) EffectiveMinIncrement() decimal.Decimal {
	if a.MinIncrement.IsPositive() {
		return a.MinIncrement
	}
	return defaultMinIncrement
}

// Validate checks the auction attributes before any row is written
func (a Auction) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: auction name is required", auctionerrors.ErrValidation)
	}
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return fmt.Errorf("%w: auction start_time and end_time are required", auctionerrors.ErrValidation)
	}
	if !a.EndTime.After(a.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", auctionerrors.ErrValidation)
	}
	switch a.Status {
	case AuctionScheduled, AuctionRunning, AuctionClosed, AuctionCancelled:
	default:
		return fmt.Errorf("%w: unknown auction status %q", auctionerrors.ErrValidation, a.Status)
	}
	switch a.Visibility {
	case VisibilityPublic, VisibilityPrivate, VisibilityUnlisted:
	default:
		return fmt.Errorf("%w: unknown auction visibility %q", auctionerrors.ErrValidation, a.Visibility)
	}
	for name, price := range map[string]decimal.Decimal{
		"reserve_price":  a.ReservePrice,
		"starting_price": a.StartingPrice,
		"min_increment":  a.MinIncrement,
		"buy_now_price":  a.BuyNowPrice,
	} {
		if price.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", auctionerrors.ErrValidation, name)
		}
	}
	return nil
}

// Validate checks the item attributes before any row is written
func (it AuctionItem) Validate() error {
	if strings.TrimSpace(it.ListingTitle) == "" {
		return fmt.Errorf("%w: listing_title is required", auctionerrors.ErrValidation)
	}
	if it.StartingPrice.IsNegative() || it.ReservePrice.IsNegative() {
		return fmt.Errorf("%w: item prices must not be negative", auctionerrors.ErrValidation)
	}
	if it.CurrentPrice.LessThan(it.StartingPrice) {
		return fmt.Errorf("%w: current_price must not be below starting_price", auctionerrors.ErrValidation)
	}
	if it.LotNumber < 1 {
		return fmt.Errorf("%w: lot_number must start at 1", auctionerrors.ErrValidation)
	}
	return nil
}

// Validate checks bid shape; the minimum-increment rule lives in the
// admission engine because it depends on the live current price
func (b Bid) Validate() error {
	if b.AuctionItemID == "" {
		return fmt.Errorf("%w: missing auction_item_id", auctionerrors.ErrInvalidBid)
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: non-positive bid amount", auctionerrors.ErrInvalidBid)
	}
	return nil
}

// Validate checks the derived notification record
func (n Notification) Validate() error {
	if n.UserID == "" || n.Title == "" || n.Message == "" || n.NotificationType == "" {
		return fmt.Errorf("%w: notification user_id, title, message and notification_type are required", auctionerrors.ErrValidation)
	}
	return nil
}

// Slugify builds the unique category key: lowercased with whitespace runs
// collapsed to single dashes
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
