package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"vendora/internal/auctioneering"
	"vendora/internal/bidding"
	"vendora/internal/lifecycle"
	model "vendora/internal/models"
	"vendora/internal/notifying"
	"vendora/internal/repository"
	"vendora/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TestEnv bundles the router with its backing store so tests can seed and
// inspect state directly
type TestEnv struct {
	Router *gin.Engine
	Store  *repository.MemoryStore
}

// SetupTestEnv initializes the full service graph on an in-memory store
func SetupTestEnv() *TestEnv {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	notifyingSvc := notifying.NewService(store)
	biddingSvc := bidding.NewBiddingService(store, notifyingSvc, bidding.DefaultLockWait)
	creationSvc := auctioneering.NewService(store, notifyingSvc)
	lifecycleSvc := lifecycle.NewService(store)

	router := server.SetupRouter(biddingSvc, creationSvc, lifecycleSvc, notifyingSvc)
	return &TestEnv{Router: router, Store: store}
}

// SeedRunningAuction adds a running auction owned by createdBy with one
// active item and returns the item ID
func (env *TestEnv) SeedRunningAuction(auctionID, createdBy string, increment int64) string {
	now := time.Now().UTC()
	env.Store.AddAuction(model.Auction{
		AuctionID:    auctionID,
		Name:         "Estate Sale",
		CreatedBy:    createdBy,
		Visibility:   model.VisibilityPublic,
		StartTime:    now.Add(-time.Hour),
		EndTime:      now.Add(time.Hour),
		Status:       model.AuctionRunning,
		Currency:     "INR",
		MinIncrement: decimal.NewFromInt(increment),
		CreatedAt:    now,
	})

	itemID := auctionID + "-item1"
	env.Store.AddItem(model.AuctionItem{
		ItemID:        itemID,
		AuctionID:     auctionID,
		ProductID:     auctionID + "-product1",
		ListingTitle:  "Teak writing desk",
		StartingPrice: decimal.NewFromInt(100),
		CurrentPrice:  decimal.NewFromInt(100),
		Status:        model.ItemActive,
		LotNumber:     1,
		CreatedAt:     now,
	})
	return itemID
}

// ExecuteRequestAndParse executes an HTTP request on the router and parses
// the JSON envelope
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// DataOf extracts the data object from a response envelope
func DataOf(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return data
}
