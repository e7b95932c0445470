package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/stockpulse/internal/services"
	"github.com/charlesng35/stockpulse/pkg/response"
)

// InventoryHandler exposes the caller's inventory items and stock adjustments.
type InventoryHandler struct {
	service *services.InventoryService
}

// NewInventoryHandler constructs an inventory handler.
func NewInventoryHandler(service *services.InventoryService) (*InventoryHandler, error) {
	if service == nil {
		return nil, errors.New("inventory handler: service is required")
	}
	return &InventoryHandler{service: service}, nil
}

func (h *InventoryHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, err := h.service.List(requestContext(c), userID, parseIntQuery(c, "page", 1), parseIntQuery(c, "per_page", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, page.Items, response.NewMeta(page.Page, page.PerPage, page.Total))
}

func (h *InventoryHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	item, err := h.service.Get(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

type createInventoryItemRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	SKU          string `json:"sku" validate:"max=64"`
	Quantity     int    `json:"quantity" validate:"min=0"`
	ReorderPoint int    `json:"reorder_point" validate:"min=0"`
}

func (h *InventoryHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var payload createInventoryItemRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	item, err := h.service.Create(requestContext(c), services.CreateInventoryItemInput{
		UserID:       userID,
		Name:         payload.Name,
		SKU:          payload.SKU,
		Quantity:     payload.Quantity,
		ReorderPoint: payload.ReorderPoint,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

type adjustStockRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

// AdjustStock sets the item quantity and returns the notifications it raised.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var payload adjustStockRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.AdjustStock(requestContext(c), userID, strings.TrimSpace(c.Param("id")), *payload.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
