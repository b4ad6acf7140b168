package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"vendora/internal/auctionerrors"
	"vendora/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrItemNotFound):
		return http.StatusNotFound, "auction item not found"
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusUnprocessableEntity, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrAuctionNotOpen):
		return http.StatusUnprocessableEntity, "auction is not open for bidding"
	case errors.Is(err, auctionerrors.ErrItemNotActive):
		return http.StatusUnprocessableEntity, "auction item is not active"
	case errors.Is(err, auctionerrors.ErrItemBusy):
		return http.StatusConflict, "item is busy, retry the bid"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusOK, "no bids found for item"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
