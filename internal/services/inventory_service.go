package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/internal/notifications"
	"github.com/charlesng35/stockpulse/internal/repository"
	apperrors "github.com/charlesng35/stockpulse/pkg/errors"
	"github.com/charlesng35/stockpulse/pkg/logger"
)

// InventoryItemDTO is the API view of an inventory item.
type InventoryItemDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku,omitempty"`
	Quantity     int       `json:"quantity"`
	ReorderPoint int       `json:"reorder_point"`
	LowStock     bool      `json:"low_stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateInventoryItemInput defines attributes for a new inventory item.
type CreateInventoryItemInput struct {
	UserID       string
	Name         string
	SKU          string
	Quantity     int
	ReorderPoint int
}

// InventoryPage is one page of a user's inventory ordered by name.
type InventoryPage struct {
	Items   []InventoryItemDTO `json:"items"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
	Total   int64              `json:"total"`
}

// StockAdjustmentResult carries the updated item and the inventory
// notifications raised for it.
type StockAdjustmentResult struct {
	Item          InventoryItemDTO              `json:"item"`
	Notifications []InventoryNotificationResult `json:"notifications"`
}

type inventoryNotifier interface {
	CreateInventoryNotification(ctx context.Context, input InventoryNotificationInput) (*InventoryNotificationResult, error)
}

// InventoryService manages stock levels and raises inventory notifications on change.
type InventoryService struct {
	items    repository.InventoryRepository
	notifier inventoryNotifier
}

// NewInventoryService constructs an InventoryService. A nil notifier disables notifications.
func NewInventoryService(items repository.InventoryRepository, notifier inventoryNotifier) (*InventoryService, error) {
	if items == nil {
		return nil, errors.New("inventory service: inventory repository is required")
	}
	return &InventoryService{items: items, notifier: notifier}, nil
}

// Create stores a new item for the user.
func (s *InventoryService) Create(ctx context.Context, input CreateInventoryItemInput) (*InventoryItemDTO, error) {
	ctx = ensureContext(ctx)
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, apperrors.NewValidation("user id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidation("name is required")
	}
	if input.Quantity < 0 || input.ReorderPoint < 0 {
		return nil, apperrors.NewValidation("quantity and reorder_point must not be negative")
	}

	item := models.InventoryItem{
		UserID:       userID,
		Name:         name,
		SKU:          strings.TrimSpace(input.SKU),
		Quantity:     input.Quantity,
		ReorderPoint: input.ReorderPoint,
	}
	if err := s.items.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("inventory service: create item: %w", err)
	}

	dto := mapInventoryItem(item)
	return &dto, nil
}

// List returns one page of the user's items.
func (s *InventoryService) List(ctx context.Context, userID string, page, perPage int) (*InventoryPage, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidation("user id is required")
	}

	page, perPage, offset := normalisePage(page, perPage, defaultPageSize)
	rows, total, err := s.items.ListByUser(ctx, userID, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("inventory service: list items: %w", err)
	}

	items := make([]InventoryItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapInventoryItem(row))
	}
	return &InventoryPage{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

// Get returns one item owned by the user.
func (s *InventoryService) Get(ctx context.Context, userID, id string) (*InventoryItemDTO, error) {
	ctx = ensureContext(ctx)
	item, err := s.items.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("inventory service: load item: %w", err)
	}
	dto := mapInventoryItem(*item)
	return &dto, nil
}

// AdjustStock sets the item quantity, then raises a stock_update notification
// and, at or below the reorder point, a low_stock one. Notification failures
// are logged and never undo the stock change.
func (s *InventoryService) AdjustStock(ctx context.Context, userID, id string, quantity int) (*StockAdjustmentResult, error) {
	ctx = ensureContext(ctx)
	if quantity < 0 {
		return nil, apperrors.NewValidation("quantity must not be negative")
	}

	updated, err := s.items.UpdateQuantity(ctx, userID, id, quantity)
	if err != nil {
		return nil, fmt.Errorf("inventory service: update quantity: %w", err)
	}
	if updated == 0 {
		return nil, apperrors.ErrNotFound
	}

	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	result := &StockAdjustmentResult{Item: *item, Notifications: []InventoryNotificationResult{}}
	if s.notifier == nil {
		return result, nil
	}

	actions := []notifications.InventoryAction{notifications.ActionStockUpdate}
	if item.LowStock {
		actions = append(actions, notifications.ActionLowStock)
	}
	for _, action := range actions {
		qty := item.Quantity
		res, err := s.notifier.CreateInventoryNotification(ctx, InventoryNotificationInput{
			UserID:   userID,
			ItemName: item.Name,
			Action:   string(action),
			Quantity: &qty,
		})
		if err != nil {
			logger.WithModule("inventory").Error("raise inventory notification",
				zap.String("item_id", item.ID),
				zap.String("action", string(action)),
				zap.Error(err),
			)
			continue
		}
		result.Notifications = append(result.Notifications, *res)
	}
	return result, nil
}

func mapInventoryItem(row models.InventoryItem) InventoryItemDTO {
	return InventoryItemDTO{
		ID:           row.ID,
		Name:         row.Name,
		SKU:          row.SKU,
		Quantity:     row.Quantity,
		ReorderPoint: row.ReorderPoint,
		LowStock:     row.Quantity <= row.ReorderPoint,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
