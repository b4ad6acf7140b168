package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"vendora/internal/auctionerrors"
	model "vendora/internal/models"
	"vendora/utils"
)

// MemoryStore is a concurrency-safe in-memory implementation of Store
type MemoryStore struct {
	mu            sync.RWMutex
	auctions      map[string]model.Auction      // key: auctionID
	items         map[string]model.AuctionItem  // key: itemID
	bids          map[string][]model.Bid        // key: itemID -> bids in admission order
	users         map[string]model.User         // key: userID
	categories    map[string]model.Category     // key: slug
	products      map[string]model.Product      // key: sellerID + "/" + name
	notifications map[string]model.Notification // key: notificationID
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions:      make(map[string]model.Auction),
		items:         make(map[string]model.AuctionItem),
		bids:          make(map[string][]model.Bid),
		users:         make(map[string]model.User),
		categories:    make(map[string]model.Category),
		products:      make(map[string]model.Product),
		notifications: make(map[string]model.Notification),
	}
}

func productKey(sellerID, name string) string {
	return sellerID + "/" + name
}

// GetAuction returns one auction by id
func (s *MemoryStore) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return a, nil
}

// GetAuctionItem returns one auction item by id
func (s *MemoryStore) GetAuctionItem(ctx context.Context, itemID string) (model.AuctionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[itemID]
	if !ok {
		return model.AuctionItem{}, fmt.Errorf("get auction item %s: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	return it, nil
}

// GetUser returns one user by id
func (s *MemoryStore) GetUser(ctx context.Context, userID string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return u, nil
}

// AdmitBid appends the bid row and advances the item's current price as one
// unit. A bid whose amount does not exceed the stored current price is
// refused, so a stale write can never regress the price.
func (s *MemoryStore) AdmitBid(ctx context.Context, bid model.Bid) (model.AuctionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[bid.AuctionItemID]
	if !ok {
		return model.AuctionItem{}, fmt.Errorf("admit bid for item %s: %w", bid.AuctionItemID, auctionerrors.ErrItemNotFound)
	}
	if !bid.Amount.GreaterThan(it.CurrentPrice) {
		return model.AuctionItem{}, fmt.Errorf("admit bid for item %s at %s (current %s): %w",
			bid.AuctionItemID, bid.Amount, it.CurrentPrice, auctionerrors.ErrStalePrice)
	}

	s.bids[bid.AuctionItemID] = append(s.bids[bid.AuctionItemID], bid)
	it.CurrentPrice = bid.Amount
	s.items[bid.AuctionItemID] = it

	return it, nil
}

// GetBidsByItem returns the item's bids ranked amount descending, then
// created_at ascending (earlier bid wins ties)
func (s *MemoryStore) GetBidsByItem(ctx context.Context, itemID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids, ok := s.bids[itemID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for item %s: %w", itemID, auctionerrors.ErrNoBids)
	}

	ranked := append([]model.Bid(nil), bids...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].Amount.Cmp(ranked[j].Amount); c != 0 {
			return c > 0
		}
		return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
	})
	return ranked, nil
}

// GetWinningBid returns the highest bid for an item
func (s *MemoryStore) GetWinningBid(ctx context.Context, itemID string) (model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids, ok := s.bids[itemID]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for item %s: %w", itemID, auctionerrors.ErrNoBids)
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(winning.Amount) ||
			(b.Amount.Equal(winning.Amount) && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// ListAuctionsByStatus returns all auctions currently in the given status
func (s *MemoryStore) ListAuctionsByStatus(ctx context.Context, status model.AuctionStatus) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Auction
	for _, a := range s.auctions {
		if a.Status == status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AuctionID < out[j].AuctionID })
	return out, nil
}

// UpdateAuctionStatus applies a guarded status change: it only succeeds when
// the stored status still equals from
func (s *MemoryStore) UpdateAuctionStatus(ctx context.Context, auctionID string, from, to model.AuctionStatus) (model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("update auction %s status: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if a.Status != from {
		return model.Auction{}, fmt.Errorf("update auction %s status %s->%s (currently %s): %w",
			auctionID, from, to, a.Status, auctionerrors.ErrInvalidTransition)
	}
	a.Status = to
	s.auctions[auctionID] = a
	return a, nil
}

// ListItemsByAuction returns the auction's items in lot-number order
func (s *MemoryStore) ListItemsByAuction(ctx context.Context, auctionID string) ([]model.AuctionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("list items for auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}

	var out []model.AuctionItem
	for _, it := range s.items {
		if it.AuctionID == auctionID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotNumber < out[j].LotNumber })
	return out, nil
}

// UpdateItemStatus applies a guarded item status change
func (s *MemoryStore) UpdateItemStatus(ctx context.Context, itemID string, from, to model.ItemStatus) (model.AuctionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID]
	if !ok {
		return model.AuctionItem{}, fmt.Errorf("update item %s status: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	if it.Status != from {
		return model.AuctionItem{}, fmt.Errorf("update item %s status %s->%s (currently %s): %w",
			itemID, from, to, it.Status, auctionerrors.ErrInvalidTransition)
	}
	it.Status = to
	s.items[itemID] = it
	return it, nil
}

// CreateAuctionBundle commits an auction with its items, resolving categories
// (by slug) and products (by seller+name) idempotently. Everything is staged
// first; on any error no row persists.
func (s *MemoryStore) CreateAuctionBundle(ctx context.Context, bundle AuctionBundle) (model.Auction, []model.AuctionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction := bundle.Auction
	if auction.AuctionID == "" {
		return model.Auction{}, nil, fmt.Errorf("create auction bundle: %w: missing auction id", auctionerrors.ErrValidation)
	}
	if _, exists := s.auctions[auction.AuctionID]; exists {
		return model.Auction{}, nil, fmt.Errorf("create auction bundle: %w: auction %s already exists", auctionerrors.ErrValidation, auction.AuctionID)
	}

	newCategories := make(map[string]model.Category)
	newProducts := make(map[string]model.Product)
	seenPairs := make(map[string]bool)
	items := make([]model.AuctionItem, 0, len(bundle.Items))

	for _, bi := range bundle.Items {
		product := bi.Product

		if bi.CategoryName != "" {
			slug := model.Slugify(bi.CategoryName)
			cat, ok := s.categories[slug]
			if !ok {
				cat, ok = newCategories[slug]
			}
			if !ok {
				cat = model.Category{
					CategoryID: utils.GenerateID(),
					Name:       bi.CategoryName,
					Slug:       slug,
				}
				newCategories[slug] = cat
			}
			product.CategoryID = cat.CategoryID
		}

		key := productKey(product.SellerID, product.Name)
		existing, ok := s.products[key]
		if !ok {
			existing, ok = newProducts[key]
		}
		if ok {
			// find-or-create: an existing product row is reused untouched
			product = existing
		} else {
			product.ProductID = utils.GenerateID()
			newProducts[key] = product
		}

		pair := auction.AuctionID + "/" + product.ProductID
		if seenPairs[pair] {
			return model.Auction{}, nil, fmt.Errorf("create auction bundle: product %q: %w",
				product.Name, auctionerrors.ErrDuplicateAuctionItem)
		}
		seenPairs[pair] = true

		item := bi.Item
		item.AuctionID = auction.AuctionID
		item.ProductID = product.ProductID
		items = append(items, item)
	}

	// all staged rows are valid, commit
	s.auctions[auction.AuctionID] = auction
	for slug, cat := range newCategories {
		s.categories[slug] = cat
	}
	for key, p := range newProducts {
		s.products[key] = p
	}
	for _, it := range items {
		s.items[it.ItemID] = it
	}

	return auction, items, nil
}

// CreateNotification persists a derived notification record
func (s *MemoryStore) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	if err := n.Validate(); err != nil {
		return model.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n.NotificationID == "" {
		n.NotificationID = utils.GenerateID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	s.notifications[n.NotificationID] = n
	return n, nil
}

// GetNotification returns one notification by id
func (s *MemoryStore) GetNotification(ctx context.Context, notificationID string) (model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[notificationID]
	if !ok {
		return model.Notification{}, fmt.Errorf("get notification %s: %w", notificationID, auctionerrors.ErrNotificationNotFound)
	}
	return n, nil
}

// ListNotificationsByUser returns a user's notifications, most recent first
func (s *MemoryStore) ListNotificationsByUser(ctx context.Context, userID string, q NotificationQuery) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if q.Seen != nil && n.Seen != *q.Seen {
			continue
		}
		if q.Type != "" && n.NotificationType != q.Type {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].NotificationID < out[j].NotificationID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// CountUnseenNotifications returns the user's unread count
func (s *MemoryStore) CountUnseenNotifications(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Seen {
			count++
		}
	}
	return count, nil
}

// MarkNotificationSeen flips the seen flag of one notification
func (s *MemoryStore) MarkNotificationSeen(ctx context.Context, notificationID string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[notificationID]
	if !ok {
		return model.Notification{}, fmt.Errorf("mark notification %s seen: %w", notificationID, auctionerrors.ErrNotificationNotFound)
	}
	n.Seen = true
	s.notifications[notificationID] = n
	return n, nil
}

// MarkAllNotificationsSeen flips every unseen notification of a user and
// returns how many were flipped
func (s *MemoryStore) MarkAllNotificationsSeen(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, n := range s.notifications {
		if n.UserID == userID && !n.Seen {
			n.Seen = true
			s.notifications[id] = n
			count++
		}
	}
	return count, nil
}

// AddUser seeds a user. This method is intended for tests and demo seeding.
func (s *MemoryStore) AddUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UserID] = u
}

// AddAuction seeds an auction without going through the orchestrator.
// This method is intended for tests and demo seeding.
func (s *MemoryStore) AddAuction(a model.Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions[a.AuctionID] = a
}

// AddItem seeds an auction item. This method is intended for tests and demo seeding.
func (s *MemoryStore) AddItem(it model.AuctionItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ItemID] = it
}
