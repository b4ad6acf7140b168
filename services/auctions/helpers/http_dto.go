package helpers

import (
	"time"

	"vendora/internal/auctioneering"
	model "vendora/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs

type AuctionPayload struct {
	Name          string          `json:"name" binding:"required"`
	CreatedBy     string          `json:"created_by"`
	Visibility    string          `json:"visibility"`
	StartTime     time.Time       `json:"start_time" binding:"required"`
	EndTime       time.Time       `json:"end_time" binding:"required"`
	Status        string          `json:"status"`
	Currency      string          `json:"currency"`
	ReservePrice  decimal.Decimal `json:"reserve_price"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	MinIncrement  decimal.Decimal `json:"min_increment"`
	BuyNowPrice   decimal.Decimal `json:"buy_now_price"`
	Metadata      map[string]any  `json:"metadata"`
}

type ProductPayload struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryName  string          `json:"category_name"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	ReservePrice  decimal.Decimal `json:"reserve_price"`
}

type CreateWithProductsRequest struct {
	Auction  AuctionPayload   `json:"auction" binding:"required"`
	Products []ProductPayload `json:"products"`
}

// ToModel maps the request onto the orchestrator input
func (r CreateWithProductsRequest) ToModel() (model.Auction, []auctioneering.ProductSpec) {
	auction := model.Auction{
		Name:          r.Auction.Name,
		CreatedBy:     r.Auction.CreatedBy,
		Visibility:    model.Visibility(r.Auction.Visibility),
		StartTime:     r.Auction.StartTime,
		EndTime:       r.Auction.EndTime,
		Status:        model.AuctionStatus(r.Auction.Status),
		Currency:      r.Auction.Currency,
		ReservePrice:  r.Auction.ReservePrice,
		StartingPrice: r.Auction.StartingPrice,
		MinIncrement:  r.Auction.MinIncrement,
		BuyNowPrice:   r.Auction.BuyNowPrice,
		Metadata:      r.Auction.Metadata,
	}

	specs := make([]auctioneering.ProductSpec, 0, len(r.Products))
	for _, p := range r.Products {
		specs = append(specs, auctioneering.ProductSpec{
			Name:          p.Name,
			Description:   p.Description,
			CategoryName:  p.CategoryName,
			StartingPrice: p.StartingPrice,
			ReservePrice:  p.ReservePrice,
		})
	}
	return auction, specs
}

type ItemResponse struct {
	ItemID        string `json:"item_id"`
	AuctionID     string `json:"auction_id"`
	ProductID     string `json:"product_id"`
	ListingTitle  string `json:"listing_title"`
	StartingPrice string `json:"starting_price"`
	CurrentPrice  string `json:"current_price"`
	ReservePrice  string `json:"reserve_price"`
	Status        string `json:"status"`
	LotNumber     int    `json:"lot_number"`
}

// NewItemResponse converts an item row into its wire shape
func NewItemResponse(it model.AuctionItem) ItemResponse {
	return ItemResponse{
		ItemID:        it.ItemID,
		AuctionID:     it.AuctionID,
		ProductID:     it.ProductID,
		ListingTitle:  it.ListingTitle,
		StartingPrice: it.StartingPrice.String(),
		CurrentPrice:  it.CurrentPrice.String(),
		ReservePrice:  it.ReservePrice.String(),
		Status:        string(it.Status),
		LotNumber:     it.LotNumber,
	}
}
