package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/internal/notifications"
	"github.com/charlesng35/stockpulse/internal/repository"
	apperrors "github.com/charlesng35/stockpulse/pkg/errors"
)

// PreferenceDTO is the API view of a per-category delivery preference.
type PreferenceDTO struct {
	Category     string    `json:"notification_type"`
	EmailEnabled bool      `json:"email_enabled"`
	PushEnabled  bool      `json:"push_enabled"`
	MinPriority  *string   `json:"min_priority"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PreferenceUpdate lists the fields a caller may change for one category.
// Nil fields are left untouched. An empty MinPriority clears the threshold.
type PreferenceUpdate struct {
	Category     string
	EmailEnabled *bool
	PushEnabled  *bool
	MinPriority  *string
}

// NotificationPreferenceService manages per-user, per-category delivery preferences.
type NotificationPreferenceService struct {
	preferences repository.PreferenceRepository
}

// NewNotificationPreferenceService constructs a NotificationPreferenceService.
func NewNotificationPreferenceService(preferences repository.PreferenceRepository) (*NotificationPreferenceService, error) {
	if preferences == nil {
		return nil, errors.New("notification preference service: preference repository is required")
	}
	return &NotificationPreferenceService{preferences: preferences}, nil
}

// List returns every stored preference of the user ordered by category.
func (s *NotificationPreferenceService) List(ctx context.Context, userID string) ([]PreferenceDTO, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewValidation("user id is required")
	}

	rows, err := s.preferences.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notification preference service: list preferences: %w", err)
	}

	out := make([]PreferenceDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPreference(row))
	}
	return out, nil
}

// Update merges each entry into the (user, category) preference, creating it
// when missing. The whole batch is validated first and applied atomically.
func (s *NotificationPreferenceService) Update(ctx context.Context, userID string, updates []PreferenceUpdate) ([]PreferenceDTO, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewValidation("user id is required")
	}

	normalised := make([]PreferenceUpdate, 0, len(updates))
	for i, update := range updates {
		update.Category = strings.TrimSpace(update.Category)
		if update.Category == "" {
			return nil, apperrors.NewValidation("preferences[%d]: type is required", i)
		}
		if update.MinPriority != nil {
			value := strings.TrimSpace(*update.MinPriority)
			if value != "" && !notifications.ValidPriority(value) {
				return nil, apperrors.NewValidation("preferences[%d]: min_priority must be one of low, normal, high", i)
			}
			update.MinPriority = &value
		}
		normalised = append(normalised, update)
	}

	err := s.preferences.Transaction(ctx, func(repo repository.PreferenceRepository) error {
		for _, update := range normalised {
			pref, err := repo.Find(ctx, userID, update.Category)
			if err != nil {
				return fmt.Errorf("load preference: %w", err)
			}
			if pref == nil {
				pref = &models.NotificationPreference{UserID: userID, Category: update.Category}
			}
			applyPreferenceUpdate(pref, update)
			if err := repo.Save(ctx, pref); err != nil {
				return fmt.Errorf("save preference: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrConflict.WithInternal(err)
		}
		return nil, fmt.Errorf("notification preference service: update preferences: %w", err)
	}

	return s.List(ctx, userID)
}

func applyPreferenceUpdate(pref *models.NotificationPreference, update PreferenceUpdate) {
	if update.EmailEnabled != nil {
		pref.EmailEnabled = *update.EmailEnabled
	}
	if update.PushEnabled != nil {
		pref.PushEnabled = *update.PushEnabled
	}
	if update.MinPriority != nil {
		if *update.MinPriority == "" {
			pref.MinPriority = nil
		} else {
			value := *update.MinPriority
			pref.MinPriority = &value
		}
	}
}

func mapPreference(row models.NotificationPreference) PreferenceDTO {
	return PreferenceDTO{
		Category:     row.Category,
		EmailEnabled: row.EmailEnabled,
		PushEnabled:  row.PushEnabled,
		MinPriority:  row.MinPriority,
		UpdatedAt:    row.UpdatedAt,
	}
}
