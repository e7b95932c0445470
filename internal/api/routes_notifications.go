package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/stockpulse/internal/handlers"
)

func registerNotificationRoutes(api *gin.RouterGroup, handler *handlers.NotificationHandler, prefs *handlers.PreferenceHandler, writes gin.HandlerFunc) {
	group := api.Group("/notifications")
	{
		group.GET("", handler.List)
		group.POST("", writes, handler.Create)
		group.GET("/unread-count", handler.UnreadCount)
		group.PUT("/mark-all-read", handler.MarkAllRead)
		group.DELETE("/clear-all", handler.ClearAll)

		group.GET("/preferences", prefs.List)
		group.PUT("/preferences", prefs.Update)

		group.POST("/inventory", writes, handler.CreateInventory)

		group.PUT("/:id/read", handler.MarkRead)
		group.DELETE("/:id", handler.Delete)
	}
}
