package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/stockpulse/internal/handlers"
)

func registerInventoryRoutes(api *gin.RouterGroup, handler *handlers.InventoryHandler, writes gin.HandlerFunc) {
	group := api.Group("/inventory")
	{
		group.GET("", handler.List)
		group.POST("", writes, handler.Create)
		group.GET("/:id", handler.Get)
		group.PUT("/:id/stock", writes, handler.AdjustStock)
	}
}
