// Package postgres implements the store contract on PostgreSQL via pgx.
// Per-item serialization relies on row locks: AdmitBid takes the item row
// FOR UPDATE so the read-validate-write unit is atomic at the database too.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vendora/internal/auctionerrors"
	model "vendora/internal/models"
	"vendora/internal/repository"
	"vendora/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a PostgreSQL-backed implementation of repository.Store
type Store struct {
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

// Connect opens a pgx pool and verifies connectivity
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

const (
	auctionColumns = `auction_id, name, created_by, visibility, start_time, end_time, status, currency,
		reserve_price, starting_price, min_increment, buy_now_price, metadata, created_at`
	itemColumns = `item_id, auction_id, product_id, listing_title, starting_price, current_price,
		reserve_price, status, lot_number, created_at`
	bidColumns = `bid_id, auction_item_id, user_id, amount, is_auto, auto_max, created_at`
	notificationColumns = `notification_id, user_id, title, message, notification_type, seen, deeplink,
		metadata, created_at`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuction(row rowScanner) (model.Auction, error) {
	var a model.Auction
	err := row.Scan(&a.AuctionID, &a.Name, &a.CreatedBy, &a.Visibility, &a.StartTime, &a.EndTime,
		&a.Status, &a.Currency, &a.ReservePrice, &a.StartingPrice, &a.MinIncrement, &a.BuyNowPrice,
		&a.Metadata, &a.CreatedAt)
	return a, err
}

func scanItem(row rowScanner) (model.AuctionItem, error) {
	var it model.AuctionItem
	err := row.Scan(&it.ItemID, &it.AuctionID, &it.ProductID, &it.ListingTitle, &it.StartingPrice,
		&it.CurrentPrice, &it.ReservePrice, &it.Status, &it.LotNumber, &it.CreatedAt)
	return it, err
}

func scanBid(row rowScanner) (model.Bid, error) {
	var b model.Bid
	err := row.Scan(&b.BidID, &b.AuctionItemID, &b.UserID, &b.Amount, &b.IsAuto, &b.AutoMax, &b.CreatedAt)
	return b, err
}

func scanNotification(row rowScanner) (model.Notification, error) {
	var n model.Notification
	err := row.Scan(&n.NotificationID, &n.UserID, &n.Title, &n.Message, &n.NotificationType, &n.Seen,
		&n.Deeplink, &n.Metadata, &n.CreatedAt)
	return n, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GetAuction returns one auction by id
func (s *Store) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+auctionColumns+` FROM auctions WHERE auction_id = $1`, auctionID)
	a, err := scanAuction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
		}
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// GetAuctionItem returns one auction item by id
func (s *Store) GetAuctionItem(ctx context.Context, itemID string) (model.AuctionItem, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM auction_items WHERE item_id = $1`, itemID)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AuctionItem{}, fmt.Errorf("get auction item %s: %w", itemID, auctionerrors.ErrItemNotFound)
		}
		return model.AuctionItem{}, fmt.Errorf("get auction item %s: %w", itemID, err)
	}
	return it, nil
}

// GetUser returns one user by id
func (s *Store) GetUser(ctx context.Context, userID string) (model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx, `SELECT user_id, username, display_name FROM users WHERE user_id = $1`, userID).
		Scan(&u.UserID, &u.Username, &u.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
		}
		return model.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return u, nil
}

// AdmitBid commits the bid row and the price advance in one transaction.
// The item row is locked FOR UPDATE and the stored price re-checked, so a
// stale write can never regress the price.
func (s *Store) AdmitBid(ctx context.Context, bid model.Bid) (model.AuctionItem, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.AuctionItem{}, fmt.Errorf("admit bid for item %s: begin: %w", bid.AuctionItemID, err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM auction_items WHERE item_id = $1 FOR UPDATE`, bid.AuctionItemID)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AuctionItem{}, fmt.Errorf("admit bid for item %s: %w", bid.AuctionItemID, auctionerrors.ErrItemNotFound)
		}
		return model.AuctionItem{}, fmt.Errorf("admit bid for item %s: %w", bid.AuctionItemID, err)
	}
	if !bid.Amount.GreaterThan(it.CurrentPrice) {
		return model.AuctionItem{}, fmt.Errorf("admit bid for item %s at %s (current %s): %w",
			bid.AuctionItemID, bid.Amount, it.CurrentPrice, auctionerrors.ErrStalePrice)
	}

	_, err = tx.Exec(ctx, `INSERT INTO bids (`+bidColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		bid.BidID, bid.AuctionItemID, bid.UserID, bid.Amount, bid.IsAuto, bid.AutoMax, bid.CreatedAt)
	if err != nil {
		return model.AuctionItem{}, fmt.Errorf("admit bid for item %s: insert bid: %w", bid.AuctionItemID, err)
	}

	_, err = tx.Exec(ctx, `UPDATE auction_items SET current_price = $1 WHERE item_id = $2`,
		bid.Amount, bid.AuctionItemID)
	if err != nil {
		return model.AuctionItem{}, fmt.Errorf("admit bid for item %s: update price: %w", bid.AuctionItemID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.AuctionItem{}, fmt.Errorf("admit bid for item %s: commit: %w", bid.AuctionItemID, err)
	}

	it.CurrentPrice = bid.Amount
	return it, nil
}

// GetBidsByItem returns the item's bids ranked amount descending, then
// created_at ascending
func (s *Store) GetBidsByItem(ctx context.Context, itemID string) ([]model.Bid, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE auction_item_id = $1 ORDER BY amount DESC, created_at ASC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("get bids for item %s: %w", itemID, err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("get bids for item %s: %w", itemID, err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get bids for item %s: %w", itemID, err)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for item %s: %w", itemID, auctionerrors.ErrNoBids)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for an item
func (s *Store) GetWinningBid(ctx context.Context, itemID string) (model.Bid, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE auction_item_id = $1 ORDER BY amount DESC, created_at ASC LIMIT 1`, itemID)
	b, err := scanBid(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Bid{}, fmt.Errorf("get winning bid for item %s: %w", itemID, auctionerrors.ErrNoBids)
		}
		return model.Bid{}, fmt.Errorf("get winning bid for item %s: %w", itemID, err)
	}
	return b, nil
}

// ListAuctionsByStatus returns all auctions currently in the given status
func (s *Store) ListAuctionsByStatus(ctx context.Context, status model.AuctionStatus) ([]model.Auction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE status = $1 ORDER BY auction_id`, status)
	if err != nil {
		return nil, fmt.Errorf("list auctions by status %s: %w", status, err)
	}
	defer rows.Close()

	var out []model.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("list auctions by status %s: %w", status, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list auctions by status %s: %w", status, err)
	}
	return out, nil
}

// UpdateAuctionStatus applies a guarded status change
func (s *Store) UpdateAuctionStatus(ctx context.Context, auctionID string, from, to model.AuctionStatus) (model.Auction, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE auctions SET status = $1 WHERE auction_id = $2 AND status = $3 RETURNING `+auctionColumns,
		to, auctionID, from)
	a, err := scanAuction(row)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("update auction %s status: %w", auctionID, err)
	}

	// no row changed: missing auction or a status mismatch
	current, gerr := s.GetAuction(ctx, auctionID)
	if gerr != nil {
		return model.Auction{}, gerr
	}
	return model.Auction{}, fmt.Errorf("update auction %s status %s->%s (currently %s): %w",
		auctionID, from, to, current.Status, auctionerrors.ErrInvalidTransition)
}

// ListItemsByAuction returns the auction's items in lot-number order
func (s *Store) ListItemsByAuction(ctx context.Context, auctionID string) ([]model.AuctionItem, error) {
	if _, err := s.GetAuction(ctx, auctionID); err != nil {
		return nil, fmt.Errorf("list items for auction %s: %w", auctionID, err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM auction_items WHERE auction_id = $1 ORDER BY lot_number`, auctionID)
	if err != nil {
		return nil, fmt.Errorf("list items for auction %s: %w", auctionID, err)
	}
	defer rows.Close()

	var out []model.AuctionItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list items for auction %s: %w", auctionID, err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items for auction %s: %w", auctionID, err)
	}
	return out, nil
}

// UpdateItemStatus applies a guarded item status change
func (s *Store) UpdateItemStatus(ctx context.Context, itemID string, from, to model.ItemStatus) (model.AuctionItem, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE auction_items SET status = $1 WHERE item_id = $2 AND status = $3 RETURNING `+itemColumns,
		to, itemID, from)
	it, err := scanItem(row)
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.AuctionItem{}, fmt.Errorf("update item %s status: %w", itemID, err)
	}

	current, gerr := s.GetAuctionItem(ctx, itemID)
	if gerr != nil {
		return model.AuctionItem{}, gerr
	}
	return model.AuctionItem{}, fmt.Errorf("update item %s status %s->%s (currently %s): %w",
		itemID, from, to, current.Status, auctionerrors.ErrInvalidTransition)
}

// CreateAuctionBundle commits the auction with its items in one transaction.
// Categories and products resolve through insert-on-conflict so concurrent
// duplicate creation attempts collapse onto a single row.
func (s *Store) CreateAuctionBundle(ctx context.Context, bundle repository.AuctionBundle) (model.Auction, []model.AuctionItem, error) {
	auction := bundle.Auction
	if auction.AuctionID == "" {
		return model.Auction{}, nil, fmt.Errorf("create auction bundle: %w: missing auction id", auctionerrors.ErrValidation)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.Auction{}, nil, fmt.Errorf("create auction bundle: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO auctions (`+auctionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		auction.AuctionID, auction.Name, auction.CreatedBy, auction.Visibility, auction.StartTime,
		auction.EndTime, auction.Status, auction.Currency, auction.ReservePrice, auction.StartingPrice,
		auction.MinIncrement, auction.BuyNowPrice, auction.Metadata, auction.CreatedAt)
	if err != nil {
		return model.Auction{}, nil, fmt.Errorf("create auction bundle: insert auction: %w", err)
	}

	items := make([]model.AuctionItem, 0, len(bundle.Items))
	for _, bi := range bundle.Items {
		product := bi.Product

		if bi.CategoryName != "" {
			slug := model.Slugify(bi.CategoryName)
			_, err = tx.Exec(ctx,
				`INSERT INTO categories (category_id, name, slug) VALUES ($1, $2, $3) ON CONFLICT (slug) DO NOTHING`,
				utils.GenerateID(), bi.CategoryName, slug)
			if err != nil {
				return model.Auction{}, nil, fmt.Errorf("create auction bundle: category %q: %w", bi.CategoryName, err)
			}
			err = tx.QueryRow(ctx, `SELECT category_id FROM categories WHERE slug = $1`, slug).Scan(&product.CategoryID)
			if err != nil {
				return model.Auction{}, nil, fmt.Errorf("create auction bundle: category %q: %w", bi.CategoryName, err)
			}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO products (product_id, seller_id, name, description, category_id)
			 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (seller_id, name) DO NOTHING`,
			utils.GenerateID(), product.SellerID, product.Name, product.Description, product.CategoryID)
		if err != nil {
			return model.Auction{}, nil, fmt.Errorf("create auction bundle: product %q: %w", product.Name, err)
		}
		err = tx.QueryRow(ctx, `SELECT product_id FROM products WHERE seller_id = $1 AND name = $2`,
			product.SellerID, product.Name).Scan(&product.ProductID)
		if err != nil {
			return model.Auction{}, nil, fmt.Errorf("create auction bundle: product %q: %w", product.Name, err)
		}

		item := bi.Item
		item.AuctionID = auction.AuctionID
		item.ProductID = product.ProductID
		_, err = tx.Exec(ctx,
			`INSERT INTO auction_items (`+itemColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			item.ItemID, item.AuctionID, item.ProductID, item.ListingTitle, item.StartingPrice,
			item.CurrentPrice, item.ReservePrice, item.Status, item.LotNumber, item.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return model.Auction{}, nil, fmt.Errorf("create auction bundle: product %q: %w",
					product.Name, auctionerrors.ErrDuplicateAuctionItem)
			}
			return model.Auction{}, nil, fmt.Errorf("create auction bundle: insert item lot %d: %w", item.LotNumber, err)
		}
		items = append(items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Auction{}, nil, fmt.Errorf("create auction bundle: commit: %w", err)
	}
	return auction, items, nil
}

// CreateNotification persists a derived notification record
func (s *Store) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	if err := n.Validate(); err != nil {
		return model.Notification{}, fmt.Errorf("create notification: %w", err)
	}
	if n.NotificationID == "" {
		n.NotificationID = utils.GenerateID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.NotificationID, n.UserID, n.Title, n.Message, n.NotificationType, n.Seen, n.Deeplink,
		n.Metadata, n.CreatedAt)
	if err != nil {
		return model.Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// GetNotification returns one notification by id
func (s *Store) GetNotification(ctx context.Context, notificationID string) (model.Notification, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE notification_id = $1`, notificationID)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Notification{}, fmt.Errorf("get notification %s: %w", notificationID, auctionerrors.ErrNotificationNotFound)
		}
		return model.Notification{}, fmt.Errorf("get notification %s: %w", notificationID, err)
	}
	return n, nil
}

// ListNotificationsByUser returns a user's notifications, most recent first
func (s *Store) ListNotificationsByUser(ctx context.Context, userID string, q repository.NotificationQuery) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []any{userID}

	if q.Seen != nil {
		args = append(args, *q.Seen)
		query += fmt.Sprintf(" AND seen = $%d", len(args))
	}
	if q.Type != "" {
		args = append(args, q.Type)
		query += fmt.Sprintf(" AND notification_type = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications for user %s: %w", userID, err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("list notifications for user %s: %w", userID, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications for user %s: %w", userID, err)
	}
	return out, nil
}

// CountUnseenNotifications returns the user's unread count
func (s *Store) CountUnseenNotifications(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND seen = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unseen notifications for user %s: %w", userID, err)
	}
	return count, nil
}

// MarkNotificationSeen flips the seen flag of one notification
func (s *Store) MarkNotificationSeen(ctx context.Context, notificationID string) (model.Notification, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE notifications SET seen = TRUE WHERE notification_id = $1 RETURNING `+notificationColumns,
		notificationID)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Notification{}, fmt.Errorf("mark notification %s seen: %w", notificationID, auctionerrors.ErrNotificationNotFound)
		}
		return model.Notification{}, fmt.Errorf("mark notification %s seen: %w", notificationID, err)
	}
	return n, nil
}

// MarkAllNotificationsSeen flips every unseen notification of a user
func (s *Store) MarkAllNotificationsSeen(ctx context.Context, userID string) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET seen = TRUE WHERE user_id = $1 AND seen = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications seen for user %s: %w", userID, err)
	}
	return int(tag.RowsAffected()), nil
}
