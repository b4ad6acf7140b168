package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"vendora/internal/auctioneering"
	"vendora/internal/bidding"
	"vendora/internal/config"
	"vendora/internal/lifecycle"
	model "vendora/internal/models"
	"vendora/internal/notifying"
	"vendora/internal/repository"
	"vendora/internal/repository/postgres"
	"vendora/internal/server"
	"vendora/utils"

	"github.com/shopspring/decimal"
)

func main() {

	cfg := config.Load()

	store, cleanup, err := openStore(cfg)
	if err != nil {
		utils.Fatal("Failed to open store", map[string]any{"backend": cfg.StoreBackend, "error": err.Error()})
	}
	defer cleanup()

	notifyingSvc := notifying.NewService(store)
	biddingSvc := bidding.NewBiddingService(store, notifyingSvc, cfg.BidLockWait)
	creationSvc := auctioneering.NewService(store, notifyingSvc)
	lifecycleSvc := lifecycle.NewService(store)

	if cfg.SweepInterval > 0 {
		go runSweeper(lifecycleSvc, cfg.SweepInterval)
	}

	router := server.SetupRouter(biddingSvc, creationSvc, lifecycleSvc, notifyingSvc)

	fmt.Printf("Starting auction server on %s...\n", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// openStore builds the configured store backend. The returned cleanup is
// safe to call once
func openStore(cfg config.Config) (repository.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		store, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StoreMemory:
		store := repository.NewMemoryStore()
		seedDemoData(store)
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// runSweeper drives the auction lifecycle on a fixed interval
func runSweeper(svc *lifecycle.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for now := range ticker.C {
		report, err := svc.Sweep(context.Background(), now.UTC())
		if err != nil {
			utils.Error("Lifecycle sweep failed", map[string]any{"error": err.Error()})
			continue
		}
		if report.Started > 0 || report.Closed > 0 {
			utils.Info("Lifecycle sweep finished", map[string]any{
				"started": report.Started,
				"closed":  report.Closed,
			})
		}
	}
}

// seedDemoData adds sample users, a running auction and items to the
// in-memory store
func seedDemoData(store *repository.MemoryStore) {
	users := []model.User{
		{UserID: "user1", Username: "asha", DisplayName: "Asha Rao"},
		{UserID: "user2", Username: "vikram", DisplayName: "Vikram Iyer"},
		{UserID: "user3", Username: "meera", DisplayName: "Meera Pillai"},
	}
	for _, u := range users {
		store.AddUser(u)
	}

	now := time.Now().UTC()
	auction := model.Auction{
		AuctionID:     "auction1",
		Name:          "Weekend Estate Sale",
		CreatedBy:     "user1",
		Visibility:    model.VisibilityPublic,
		StartTime:     now.Add(-time.Hour),
		EndTime:       now.Add(24 * time.Hour),
		Status:        model.AuctionRunning,
		Currency:      "INR",
		MinIncrement:  decimal.NewFromInt(10),
		StartingPrice: decimal.NewFromInt(100),
		CreatedAt:     now,
	}
	store.AddAuction(auction)

	items := []model.AuctionItem{
		{ItemID: "item1", AuctionID: auction.AuctionID, ProductID: "product1", ListingTitle: "Teak writing desk",
			StartingPrice: decimal.NewFromInt(100), CurrentPrice: decimal.NewFromInt(100),
			Status: model.ItemActive, LotNumber: 1, CreatedAt: now},
		{ItemID: "item2", AuctionID: auction.AuctionID, ProductID: "product2", ListingTitle: "Brass table lamp",
			StartingPrice: decimal.NewFromInt(200), CurrentPrice: decimal.NewFromInt(200),
			Status: model.ItemActive, LotNumber: 2, CreatedAt: now},
		{ItemID: "item3", AuctionID: auction.AuctionID, ProductID: "product3", ListingTitle: "Vintage wall clock",
			StartingPrice: decimal.NewFromInt(150), CurrentPrice: decimal.NewFromInt(150),
			Status: model.ItemActive, LotNumber: 3, CreatedAt: now},
	}
	for _, it := range items {
		store.AddItem(it)
	}
}
