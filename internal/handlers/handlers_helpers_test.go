package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/stockpulse/internal/database/testutil"
	"github.com/charlesng35/stockpulse/internal/identity"
	"github.com/charlesng35/stockpulse/internal/middleware"
	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/internal/notifications"
	"github.com/charlesng35/stockpulse/internal/repository"
	"github.com/charlesng35/stockpulse/internal/services"
	"github.com/charlesng35/stockpulse/pkg/mail"
	"github.com/charlesng35/stockpulse/pkg/response"
)

type capturingMailer struct {
	sent []mail.Message
}

func (m *capturingMailer) Configured() bool { return true }

func (m *capturingMailer) Send(_ context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type handlerEnv struct {
	db     *gorm.DB
	router *gin.Engine
	mailer *capturingMailer
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithUsers(
		models.User{ID: "alice", Email: "alice@example.com"},
		models.User{ID: "bob", Email: "bob@example.com"},
	))
	resolver := identity.NewDBResolver(db)
	mailer := &capturingMailer{}

	notificationSvc, err := services.NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewPreferenceRepository(db),
		resolver,
		services.WithEmailChannel(notifications.NewEmailChannel(mailer, resolver)),
		services.WithPushChannel(notifications.NewPushChannel()),
	)
	require.NoError(t, err)
	preferenceSvc, err := services.NewNotificationPreferenceService(repository.NewPreferenceRepository(db))
	require.NoError(t, err)
	inventorySvc, err := services.NewInventoryService(repository.NewInventoryRepository(db), notificationSvc)
	require.NoError(t, err)

	notificationHandler, err := NewNotificationHandler(notificationSvc)
	require.NoError(t, err)
	preferenceHandler, err := NewPreferenceHandler(preferenceSvc)
	require.NoError(t, err)
	inventoryHandler, err := NewInventoryHandler(inventorySvc)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", Health(db, true))

	api := r.Group("/api", func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set(middleware.CtxUserIDKey, user)
		}
		c.Next()
	})
	group := api.Group("/notifications")
	group.GET("", notificationHandler.List)
	group.POST("", notificationHandler.Create)
	group.GET("/unread-count", notificationHandler.UnreadCount)
	group.PUT("/mark-all-read", notificationHandler.MarkAllRead)
	group.DELETE("/clear-all", notificationHandler.ClearAll)
	group.GET("/preferences", preferenceHandler.List)
	group.PUT("/preferences", preferenceHandler.Update)
	group.POST("/inventory", notificationHandler.CreateInventory)
	group.PUT("/:id/read", notificationHandler.MarkRead)
	group.DELETE("/:id", notificationHandler.Delete)

	inventory := api.Group("/inventory")
	inventory.GET("", inventoryHandler.List)
	inventory.POST("", inventoryHandler.Create)
	inventory.GET("/:id", inventoryHandler.Get)
	inventory.PUT("/:id/stock", inventoryHandler.AdjustStock)

	return &handlerEnv{db: db, router: r, mailer: mailer}
}

func (e *handlerEnv) do(t *testing.T, method, path, user string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var payload response.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func decodeData[T any](t *testing.T, payload response.Response) T {
	t.Helper()
	raw, err := json.Marshal(payload.Data)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
