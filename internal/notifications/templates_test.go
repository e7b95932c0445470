package notifications

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderInventoryTemplate(t *testing.T) {
	tpl, ok := RenderInventoryTemplate(ActionLowStock, "Widget", nil)
	require.True(t, ok)
	require.Equal(t, "Low Stock Alert: Widget", tpl.Title)
	require.Equal(t, "The stock level for Widget is below the reorder point.", tpl.Message)
	require.Equal(t, PriorityHigh, tpl.Priority)

	tpl, ok = RenderInventoryTemplate(ActionReorder, "Widget", nil)
	require.True(t, ok)
	require.Equal(t, "Reorder Reminder: Widget", tpl.Title)
	require.Equal(t, "It's time to reorder Widget.", tpl.Message)
	require.Equal(t, PriorityNormal, tpl.Priority)

	qty := 42
	tpl, ok = RenderInventoryTemplate(ActionStockUpdate, "Widget", &qty)
	require.True(t, ok)
	require.Equal(t, "Stock Updated: Widget", tpl.Title)
	require.Equal(t, "Stock level for Widget has been updated to 42.", tpl.Message)
	require.Equal(t, PriorityNormal, tpl.Priority)

	tpl, ok = RenderInventoryTemplate(ActionStockUpdate, "Widget", nil)
	require.True(t, ok)
	require.Equal(t, "Stock level for Widget has been updated to unknown.", tpl.Message)
}

func TestRenderInventoryTemplateUnknownAction(t *testing.T) {
	_, ok := RenderInventoryTemplate(InventoryAction("restock_party"), "Widget", nil)
	require.False(t, ok)
}
