package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/charlesng35/stockpulse/internal/auth"
	"github.com/charlesng35/stockpulse/internal/handlers"
	"github.com/charlesng35/stockpulse/internal/middleware"
	"github.com/charlesng35/stockpulse/internal/services"
)

// Dependencies carries the long-lived services the HTTP layer is built from.
type Dependencies struct {
	DB              *gorm.DB
	JWT             *iauth.JWTService
	Notifications   *services.NotificationService
	Preferences     *services.NotificationPreferenceService
	Inventory       *services.InventoryService
	WriteLimiter    *middleware.RateLimiter
	EmailConfigured bool
}

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	notificationHandler, err := handlers.NewNotificationHandler(deps.Notifications)
	if err != nil {
		return nil, err
	}
	preferenceHandler, err := handlers.NewPreferenceHandler(deps.Preferences)
	if err != nil {
		return nil, err
	}
	inventoryHandler, err := handlers.NewInventoryHandler(deps.Inventory)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())

	r.GET("/health", handlers.Health(deps.DB, deps.EmailConfigured))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.JWT))

	writes := middleware.RateLimit(deps.WriteLimiter)

	registerNotificationRoutes(api, notificationHandler, preferenceHandler, writes)
	registerInventoryRoutes(api, inventoryHandler, writes)

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
