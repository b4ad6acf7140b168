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
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrValidation):
		return http.StatusUnprocessableEntity, "validation failed"
	case errors.Is(err, auctionerrors.ErrDuplicateAuctionItem):
		return http.StatusUnprocessableEntity, "auction cannot list the same product twice"
	case errors.Is(err, auctionerrors.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "illegal status transition"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
