package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	model "vendora/internal/models"
	"vendora/internal/notifying"
	"vendora/internal/repository"
	"vendora/services/notifications/helpers"
	"vendora/utils"

	"github.com/gin-gonic/gin"
)

// defaultListLimit caps an unfiltered inbox listing
const defaultListLimit = 50

type NotifyingServiceInterface interface {
	List(ctx context.Context, userID string, q repository.NotificationQuery) (notifying.Inbox, error)
	MarkSeen(ctx context.Context, notificationID string) (model.Notification, error)
	MarkAllSeen(ctx context.Context, userID string) (int, error)
}

type NotificationsHandler struct {
	service NotifyingServiceInterface
}

func NewNotificationsHandler(service NotifyingServiceInterface) *NotificationsHandler {
	return &NotificationsHandler{service: service}
}

// ListNotificationsHandler handles GET /notifications?user_id=
func (h *NotificationsHandler) ListNotificationsHandler(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, errors.New("user_id is required"), "user_id is required")
		return
	}

	q := repository.NotificationQuery{Limit: defaultListLimit, Type: c.Query("type")}
	if raw := c.Query("seen"); raw != "" {
		seen, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid seen filter: %w", err), "invalid seen filter")
			return
		}
		q.Seen = &seen
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			utils.JSONError(c, http.StatusBadRequest, errors.New("invalid limit"), "invalid limit")
			return
		}
		q.Limit = limit
	}

	inbox, err := h.service.List(c.Request.Context(), userID, q)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListNotificationsHandler: error listing notifications", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"notifications": inbox.Notifications,
		"unread_count":  inbox.UnreadCount,
	}, "notifications retrieved successfully")
	helpers.LogSuccess("ListNotificationsHandler", "notifications retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(inbox.Notifications),
	})
}

// MarkSeenHandler handles POST /notifications/:notification_id/mark_seen
func (h *NotificationsHandler) MarkSeenHandler(c *gin.Context) {
	notificationID := c.Param("notification_id")
	n, err := h.service.MarkSeen(c.Request.Context(), notificationID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("MarkSeenHandler: error marking notification seen", map[string]any{"notification_id": notificationID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"notification": n}, "notification marked as seen")
	helpers.LogSuccess("MarkSeenHandler", "notification marked as seen", map[string]any{"notification_id": notificationID})
}

// MarkAllSeenHandler handles POST /notifications/mark_all_seen?user_id=
func (h *NotificationsHandler) MarkAllSeenHandler(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, errors.New("user_id is required"), "user_id is required")
		return
	}

	count, err := h.service.MarkAllSeen(c.Request.Context(), userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("MarkAllSeenHandler: error marking notifications seen", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"updated_count": count},
		fmt.Sprintf("Marked %d notifications as seen", count))
	helpers.LogSuccess("MarkAllSeenHandler", "notifications marked as seen", map[string]any{
		"user_id":       userID,
		"updated_count": count,
	})
}
