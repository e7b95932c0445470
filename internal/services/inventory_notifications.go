package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/charlesng35/stockpulse/internal/notifications"
	apperrors "github.com/charlesng35/stockpulse/pkg/errors"
	"github.com/charlesng35/stockpulse/pkg/logger"
	"github.com/charlesng35/stockpulse/pkg/metrics"
)

// SkipReasonUnknownAction marks an inventory event whose action has no template.
const SkipReasonUnknownAction = "unknown_action"

// InventoryNotificationInput describes an inventory event to notify a user about.
type InventoryNotificationInput struct {
	UserID   string
	ItemName string
	Action   string
	Quantity *int
}

// InventoryNotificationResult reports either the created notification or why none was created.
type InventoryNotificationResult struct {
	Action  string                    `json:"action"`
	Skipped bool                      `json:"skipped"`
	Reason  string                    `json:"reason,omitempty"`
	Created *CreateNotificationResult `json:"created,omitempty"`
}

// CreateInventoryNotification renders the template for the action and creates
// the notification through Create. Unknown actions are skipped, not rejected.
func (s *NotificationService) CreateInventoryNotification(ctx context.Context, input InventoryNotificationInput) (*InventoryNotificationResult, error) {
	ctx = ensureContext(ctx)
	action := strings.TrimSpace(input.Action)
	itemName := strings.TrimSpace(input.ItemName)
	if itemName == "" {
		return nil, apperrors.NewValidation("item_name is required")
	}

	tpl, ok := notifications.RenderInventoryTemplate(notifications.InventoryAction(action), itemName, input.Quantity)
	if !ok {
		logger.WithModule("notifications").Warn("unknown inventory action",
			zap.String("action", action),
			zap.String("user_id", input.UserID),
			zap.String("item_name", itemName),
		)
		metrics.InventoryNotificationsSkipped.WithLabelValues(SkipReasonUnknownAction).Inc()
		return &InventoryNotificationResult{Action: action, Skipped: true, Reason: SkipReasonUnknownAction}, nil
	}

	var quantity any
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	created, err := s.Create(ctx, CreateNotificationInput{
		UserID:   input.UserID,
		Category: notifications.CategoryInventory,
		Title:    tpl.Title,
		Message:  tpl.Message,
		Priority: string(tpl.Priority),
		Metadata: map[string]any{
			"item_name": itemName,
			"action":    action,
			"quantity":  quantity,
		},
	})
	if err != nil {
		return nil, err
	}
	return &InventoryNotificationResult{Action: action, Created: created}, nil
}
