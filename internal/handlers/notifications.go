package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/stockpulse/internal/services"
	"github.com/charlesng35/stockpulse/pkg/response"
)

// NotificationHandler exposes HTTP endpoints for notifications.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(service *services.NotificationService) (*NotificationHandler, error) {
	if service == nil {
		return nil, errors.New("notification handler: service is required")
	}
	return &NotificationHandler{service: service}, nil
}

// List returns a page of the caller's notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, err := h.service.List(requestContext(c), services.ListNotificationsInput{
		UserID:     userID,
		UnreadOnly: parseBoolQuery(c, "unread"),
		Priority:   c.DefaultQuery("filter", "all"),
		Category:   c.Query("category"),
		Page:       parseIntQuery(c, "page", 1),
		PerPage:    parseIntQuery(c, "per_page", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Items, response.NewMeta(page.Page, page.PerPage, page.Total))
}

// UnreadCount returns the number of unread notifications of the caller.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": count})
}

type createNotificationRequest struct {
	Type     string         `json:"type" validate:"required"`
	Title    string         `json:"title" validate:"required,max=255"`
	Message  string         `json:"message" validate:"required"`
	Priority string         `json:"priority" validate:"required,priority"`
	Metadata map[string]any `json:"metadata"`
}

// Create stores a notification for the caller and reports channel outcomes.
func (h *NotificationHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var payload createNotificationRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.Create(requestContext(c), services.CreateNotificationInput{
		UserID:   userID,
		Category: payload.Type,
		Title:    payload.Title,
		Message:  payload.Message,
		Priority: payload.Priority,
		Metadata: payload.Metadata,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dto, err := h.service.MarkRead(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}

// MarkAllRead marks all notifications read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	updated, err := h.service.MarkAllRead(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// Delete removes a notification.
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(requestContext(c), userID, strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ClearAll removes every notification of the caller.
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	deleted, err := h.service.ClearAll(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}

type inventoryNotificationRequest struct {
	ItemName string `json:"item_name" validate:"required"`
	Action   string `json:"action" validate:"required"`
	Quantity *int   `json:"quantity"`
}

// CreateInventory raises a templated inventory notification for the caller.
// Unknown actions answer 200 with a skipped result instead of 201.
func (h *NotificationHandler) CreateInventory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var payload inventoryNotificationRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.CreateInventoryNotification(requestContext(c), services.InventoryNotificationInput{
		UserID:   userID,
		ItemName: payload.ItemName,
		Action:   payload.Action,
		Quantity: payload.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if result.Skipped {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}
