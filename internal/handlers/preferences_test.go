package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/stockpulse/internal/services"
)

func TestPreferenceHandlerUpdateAndList(t *testing.T) {
	env := newHandlerEnv(t)

	w, payload := env.do(t, http.MethodPut, "/api/notifications/preferences", "alice", map[string]any{
		"preferences": []map[string]any{
			{"notification_type": "inventory", "push_enabled": true},
			{"notification_type": "system", "email_enabled": true, "min_priority": "normal"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	prefs := decodeData[[]services.PreferenceDTO](t, payload)
	require.Len(t, prefs, 2)

	w, payload = env.do(t, http.MethodGet, "/api/notifications/preferences", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	prefs = decodeData[[]services.PreferenceDTO](t, payload)
	require.Len(t, prefs, 2)
	require.Equal(t, "inventory", prefs[0].Category)
	require.True(t, prefs[0].PushEnabled)
	require.Nil(t, prefs[0].MinPriority)
	require.Equal(t, "normal", *prefs[1].MinPriority)
}

func TestPreferenceHandlerRejectsInvalidPayloads(t *testing.T) {
	env := newHandlerEnv(t)

	w, _ := env.do(t, http.MethodPut, "/api/notifications/preferences", "alice", map[string]any{"preferences": []any{}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPut, "/api/notifications/preferences", "alice", map[string]any{
		"preferences": []map[string]any{{"email_enabled": true}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, payload := env.do(t, http.MethodPut, "/api/notifications/preferences", "alice", map[string]any{
		"preferences": []map[string]any{{"notification_type": "inventory", "min_priority": "loud"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "VALIDATION_FAILED", payload.Error.Code)
}
