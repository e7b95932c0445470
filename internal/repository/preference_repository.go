package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/charlesng35/stockpulse/internal/models"
)

// PreferenceRepository persists per-user, per-category delivery preferences.
type PreferenceRepository interface {
	// Find returns nil without error when no preference exists for the pair.
	Find(ctx context.Context, userID, category string) (*models.NotificationPreference, error)
	ListByUser(ctx context.Context, userID string) ([]models.NotificationPreference, error)
	Save(ctx context.Context, pref *models.NotificationPreference) error
	// Transaction runs fn against a repository bound to a single transaction.
	Transaction(ctx context.Context, fn func(repo PreferenceRepository) error) error
}

type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository returns the gorm-backed preference store.
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Find(ctx context.Context, userID, category string) (*models.NotificationPreference, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var pref models.NotificationPreference
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND notification_type = ?", userID, category).
		First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepository) ListByUser(ctx context.Context, userID string) ([]models.NotificationPreference, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var prefs []models.NotificationPreference
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("notification_type ASC").
		Find(&prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

// Save inserts a new preference or updates every column of an existing one.
func (r *preferenceRepository) Save(ctx context.Context, pref *models.NotificationPreference) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	if pref.ID == "" {
		return r.db.WithContext(ctx).Create(pref).Error
	}
	return r.db.WithContext(ctx).Save(pref).Error
}

func (r *preferenceRepository) Transaction(ctx context.Context, fn func(repo PreferenceRepository) error) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&preferenceRepository{db: tx})
	})
}
