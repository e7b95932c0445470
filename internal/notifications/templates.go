package notifications

import (
	"fmt"
	"strconv"
)

// CategoryInventory is the category used for templated inventory notifications.
const CategoryInventory = "inventory"

// InventoryAction names an inventory event with a notification template.
type InventoryAction string

const (
	ActionLowStock    InventoryAction = "low_stock"
	ActionReorder     InventoryAction = "reorder"
	ActionStockUpdate InventoryAction = "stock_update"
)

// Template is a rendered title, message and priority.
type Template struct {
	Title    string
	Message  string
	Priority Priority
}

// RenderInventoryTemplate fills in the template for action. The boolean is
// false when the action has no template.
func RenderInventoryTemplate(action InventoryAction, itemName string, quantity *int) (Template, bool) {
	switch action {
	case ActionLowStock:
		return Template{
			Title:    "Low Stock Alert: " + itemName,
			Message:  fmt.Sprintf("The stock level for %s is below the reorder point.", itemName),
			Priority: PriorityHigh,
		}, true
	case ActionReorder:
		return Template{
			Title:    "Reorder Reminder: " + itemName,
			Message:  fmt.Sprintf("It's time to reorder %s.", itemName),
			Priority: PriorityNormal,
		}, true
	case ActionStockUpdate:
		qty := "unknown"
		if quantity != nil {
			qty = strconv.Itoa(*quantity)
		}
		return Template{
			Title:    "Stock Updated: " + itemName,
			Message:  fmt.Sprintf("Stock level for %s has been updated to %s.", itemName, qty),
			Priority: PriorityNormal,
		}, true
	default:
		return Template{}, false
	}
}
