package server

import (
	"vendora/internal/auctioneering"
	"vendora/internal/bidding"
	"vendora/internal/lifecycle"
	"vendora/internal/notifying"
	auctionshandler "vendora/services/auctions/handler"
	biddinghandler "vendora/services/bidding/handler"
	notificationshandler "vendora/services/notifications/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(
	biddingService *bidding.BiddingService,
	creationService *auctioneering.Service,
	lifecycleService *lifecycle.Service,
	notifyingService *notifying.Service,
) *gin.Engine {
	router := gin.New() // new router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	biddingHandler := biddinghandler.NewBiddingHandler(biddingService)
	auctionsHandler := auctionshandler.NewAuctionsHandler(creationService, lifecycleService)
	notificationsHandler := notificationshandler.NewNotificationsHandler(notifyingService)

	bids := router.Group("/bids")
	{
		bids.POST("", biddingHandler.PlaceBidHandler)
	}

	items := router.Group("/items")
	{
		items.GET("/:item_id/bids", biddingHandler.GetBidsByItemHandler)
		items.GET("/:item_id/winning", biddingHandler.GetWinningBidHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.POST("/create_with_products", auctionsHandler.CreateWithProductsHandler)
		auctions.POST("/:auction_id/start", auctionsHandler.StartAuctionHandler)
		auctions.POST("/:auction_id/close", auctionsHandler.CloseAuctionHandler)
		auctions.POST("/:auction_id/cancel", auctionsHandler.CancelAuctionHandler)
	}

	notifications := router.Group("/notifications")
	{
		notifications.GET("", notificationsHandler.ListNotificationsHandler)
		notifications.POST("/mark_all_seen", notificationsHandler.MarkAllSeenHandler)
		notifications.POST("/:notification_id/mark_seen", notificationsHandler.MarkSeenHandler)
	}

	return router
}
