package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const healthProbeTimeout = 2 * time.Second

// Health pings the database and reports whether email delivery is configured.
// A failed ping answers 503.
func Health(db *gorm.DB, emailConfigured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "up"
		status := http.StatusOK
		if err := pingDatabase(requestContext(c), db); err != nil {
			database = "down"
			status = http.StatusServiceUnavailable
		}

		email := "disabled"
		if emailConfigured {
			email = "configured"
		}

		c.JSON(status, gin.H{
			"success":    status == http.StatusOK,
			"database":   database,
			"email":      email,
			"checked_at": time.Now().UTC(),
		})
	}
}

func pingDatabase(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	return sqlDB.PingContext(probeCtx)
}
