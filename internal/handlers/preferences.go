package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/stockpulse/internal/services"
	"github.com/charlesng35/stockpulse/pkg/response"
)

// PreferenceHandler exposes the caller's notification delivery preferences.
type PreferenceHandler struct {
	service *services.NotificationPreferenceService
}

// NewPreferenceHandler constructs a preference handler.
func NewPreferenceHandler(service *services.NotificationPreferenceService) (*PreferenceHandler, error) {
	if service == nil {
		return nil, errors.New("preference handler: service is required")
	}
	return &PreferenceHandler{service: service}, nil
}

// List returns every stored preference of the caller.
func (h *PreferenceHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	prefs, err := h.service.List(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, prefs)
}

type preferenceEntry struct {
	NotificationType string  `json:"notification_type" validate:"required"`
	EmailEnabled     *bool   `json:"email_enabled"`
	PushEnabled      *bool   `json:"push_enabled"`
	MinPriority      *string `json:"min_priority"`
}

type updatePreferencesRequest struct {
	Preferences []preferenceEntry `json:"preferences" validate:"required,min=1,dive"`
}

// Update merges a batch of per-category changes. Keys other than the ones on
// preferenceEntry are ignored.
func (h *PreferenceHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var payload updatePreferencesRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	updates := make([]services.PreferenceUpdate, 0, len(payload.Preferences))
	for _, entry := range payload.Preferences {
		updates = append(updates, services.PreferenceUpdate{
			Category:     entry.NotificationType,
			EmailEnabled: entry.EmailEnabled,
			PushEnabled:  entry.PushEnabled,
			MinPriority:  entry.MinPriority,
		})
	}

	prefs, err := h.service.Update(requestContext(c), userID, updates)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, prefs)
}
