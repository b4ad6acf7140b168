package helpers

import (
	"time"

	model "vendora/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs

// BidPayload carries the bid attributes of a place-bid request
type BidPayload struct {
	Amount decimal.Decimal `json:"amount"`
}

type PlaceBidRequest struct {
	Bid           BidPayload `json:"bid" binding:"required"`
	AuctionItemID string     `json:"auction_item_id" binding:"required"`
	UserID        string     `json:"user_id"`
}

type BidResponse struct {
	BidID         string `json:"bid_id"`
	AuctionItemID string `json:"auction_item_id"`
	UserID        string `json:"user_id,omitempty"`
	Amount        string `json:"amount"`
	IsAuto        bool   `json:"is_auto"`
	CreatedAt     string `json:"created_at"`
}

// NewBidResponse converts a bid row into its wire shape; amounts travel as
// fixed-point strings
func NewBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:         b.BidID,
		AuctionItemID: b.AuctionItemID,
		UserID:        b.UserID,
		Amount:        b.Amount.String(),
		IsAuto:        b.IsAuto,
		CreatedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
