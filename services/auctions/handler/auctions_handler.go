package handler

import (
	"context"
	"fmt"
	"net/http"

	"vendora/internal/auctioneering"
	"vendora/internal/lifecycle"
	model "vendora/internal/models"
	"vendora/services/auctions/helpers"
	"vendora/utils"

	"github.com/gin-gonic/gin"
)

type CreationServiceInterface interface {
	CreateAuctionWithProducts(ctx context.Context, auction model.Auction, specs []auctioneering.ProductSpec) (model.Auction, []model.AuctionItem, error)
}

type LifecycleServiceInterface interface {
	StartAuction(ctx context.Context, auctionID string) (model.Auction, error)
	CloseAuction(ctx context.Context, auctionID string) (lifecycle.ClosureSummary, error)
	CancelAuction(ctx context.Context, auctionID string) (model.Auction, error)
}

type AuctionsHandler struct {
	creation  CreationServiceInterface
	lifecycle LifecycleServiceInterface
}

func NewAuctionsHandler(creation CreationServiceInterface, lc LifecycleServiceInterface) *AuctionsHandler {
	return &AuctionsHandler{creation: creation, lifecycle: lc}
}

// CreateWithProductsHandler handles POST /auctions/create_with_products
func (h *AuctionsHandler) CreateWithProductsHandler(c *gin.Context) {
	var req helpers.CreateWithProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateWithProductsHandler", err)
		return
	}

	auction, specs := req.ToModel()
	created, items, err := h.creation.CreateAuctionWithProducts(c.Request.Context(), auction, specs)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateWithProductsHandler: failed to create auction", map[string]any{
			"handler": "CreateWithProductsHandler",
			"name":    req.Auction.Name,
			"error":   err.Error(),
		})
		return
	}

	itemResponses := make([]helpers.ItemResponse, 0, len(items))
	for _, it := range items {
		itemResponses = append(itemResponses, helpers.NewItemResponse(it))
	}

	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"auction":       created,
		"auction_items": itemResponses,
	}, "Auction created successfully with products")
	helpers.LogSuccess("CreateWithProductsHandler", "auction created successfully", map[string]any{
		"auction_id": created.AuctionID,
		"name":       created.Name,
		"items":      len(items),
	})
}

// StartAuctionHandler handles POST /auctions/:auction_id/start
func (h *AuctionsHandler) StartAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.lifecycle.StartAuction(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("StartAuctionHandler: failed to start auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction": auction}, "auction started")
	helpers.LogSuccess("StartAuctionHandler", "auction started", map[string]any{"auction_id": auctionID})
}

// CloseAuctionHandler handles POST /auctions/:auction_id/close
func (h *AuctionsHandler) CloseAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	summary, err := h.lifecycle.CloseAuction(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CloseAuctionHandler: failed to close auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"auction": summary.Auction,
		"sold":    summary.Sold,
		"unsold":  summary.Unsold,
	}, "auction closed")
	helpers.LogSuccess("CloseAuctionHandler", "auction closed", map[string]any{
		"auction_id": auctionID,
		"sold":       summary.Sold,
		"unsold":     summary.Unsold,
	})
}

// CancelAuctionHandler handles POST /auctions/:auction_id/cancel
func (h *AuctionsHandler) CancelAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.lifecycle.CancelAuction(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CancelAuctionHandler: failed to cancel auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction": auction}, "auction cancelled")
	helpers.LogSuccess("CancelAuctionHandler", "auction cancelled", map[string]any{"auction_id": auctionID})
}
